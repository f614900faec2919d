package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/xtding233/enchant-engine/internal/enchant"
	"github.com/xtding233/enchant-engine/internal/service"
)

type Handler struct {
	svc *service.Service
}

// tierQuery binds the level/item_tier/orb_tier triple most GET routes share.
type tierQuery struct {
	level, item, orb int
}

func bindTiers(b *echo.ValueBinder, withOrb bool) tierQuery {
	var q tierQuery
	b.Int("level", &q.level).MustInt("item_tier", &q.item)
	if withOrb {
		b.MustInt("orb_tier", &q.orb)
	}
	return q
}

// optInt binds name only when present so absent values stay nil.
func optInt(c echo.Context, b *echo.ValueBinder, name string) *int {
	if c.QueryParam(name) == "" {
		return nil
	}
	v := new(int)
	b.Int(name, v)
	return v
}

func badQuery(err error) error {
	return echo.NewHTTPError(http.StatusBadRequest, err.Error())
}

func (h *Handler) Rate(c echo.Context) error {
	b := echo.QueryParamsBinder(c)
	q := bindTiers(b, true)
	if err := b.BindError(); err != nil {
		return badQuery(err)
	}
	resp, err := h.svc.Rate(c.Request().Context(), service.RateRequest{
		Level: q.level, Item: enchant.ItemTier(q.item), Orb: enchant.OrbTier(q.orb),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) Cost(c echo.Context) error {
	b := echo.QueryParamsBinder(c)
	q := bindTiers(b, true)
	target := optInt(c, b, "target")
	if err := b.BindError(); err != nil {
		return badQuery(err)
	}
	resp, err := h.svc.Cost(c.Request().Context(), service.CostRequest{
		Level: q.level, Target: target, Item: enchant.ItemTier(q.item), Orb: enchant.OrbTier(q.orb),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) Path(c echo.Context) error {
	b := echo.QueryParamsBinder(c)
	q := bindTiers(b, true)
	if err := b.BindError(); err != nil {
		return badQuery(err)
	}
	resp, err := h.svc.Path(c.Request().Context(), service.PathRequest{
		Level: q.level, Item: enchant.ItemTier(q.item), Orb: enchant.OrbTier(q.orb),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) Recommend(c echo.Context) error {
	b := echo.QueryParamsBinder(c)
	q := bindTiers(b, false)
	var minRate *float64
	if c.QueryParam("min_rate") != "" {
		minRate = new(float64)
		b.Float64("min_rate", minRate)
	}
	if err := b.BindError(); err != nil {
		return badQuery(err)
	}
	resp, err := h.svc.Recommend(c.Request().Context(), service.RecommendRequest{
		Level: q.level, Item: enchant.ItemTier(q.item), MinRate: minRate,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) Practical(c echo.Context) error {
	b := echo.QueryParamsBinder(c)
	q := bindTiers(b, true)
	target := optInt(c, b, "target")
	if err := b.BindError(); err != nil {
		return badQuery(err)
	}
	resp, err := h.svc.Practical(c.Request().Context(), service.PracticalRequest{
		Level: q.level, Target: target, Item: enchant.ItemTier(q.item), Orb: enchant.OrbTier(q.orb),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) Simulate(c echo.Context) error {
	var req service.SimulateRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	resp, err := h.svc.Simulate(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) Compare(c echo.Context) error {
	var req service.CompareRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	resp, err := h.svc.Compare(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) Tables(c echo.Context) error {
	return c.JSON(http.StatusOK, h.svc.Tables(c.Request().Context()))
}
