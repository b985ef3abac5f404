package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"semester/internal/app/ports"
	"semester/internal/app/session"
	"semester/internal/app/tick"
	"semester/internal/domain/activity"
	"semester/internal/domain/character"
	"semester/internal/domain/simulation"

	"github.com/charmbracelet/log"
	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

const playerIDHeader = "X-Player-ID"

const defaultHistoryLimit = 50

type SessionProvider interface {
	Get(ctx context.Context, playerID string) (*session.Controller, error)
}

type Handler struct {
	Sessions        SessionProvider
	Journal         ports.TickJournalRepository
	Characters      ports.CharacterRepository
	KPI             kpiSnapshotProvider
	DefaultPlayerID string
	AllowedOrigins  []string
	Logger          *log.Logger
	Now             func() time.Time
}

func (h Handler) RegisterRoutes(s *server.Hertz) {
	s.Use(corsMiddleware(h.AllowedOrigins))

	sim := s.Group("/api/sim")
	sim.GET("/status", h.status)
	sim.GET("/date", h.date)
	sim.GET("/history", h.history)
	sim.GET("/activity-stats", h.activityStats)
	sim.POST("/play", h.play)
	sim.POST("/pause", h.pause)
	sim.POST("/toggle", h.toggle)
	sim.POST("/tick", h.tick)
	sim.POST("/allocation", h.allocation)
	sim.POST("/paused", h.paused)
	sim.POST("/reset", h.reset)
	sim.POST("/character", h.character)

	s.GET("/ops/kpi", h.kpi)
}

type allocationRequest struct {
	Study    *float64 `json:"study"`
	Work     *float64 `json:"work"`
	Social   *float64 `json:"social"`
	Rest     *float64 `json:"rest"`
	Exercise *float64 `json:"exercise"`
}

type pausedRequest struct {
	Paused *bool `json:"paused"`
}

type allocationResponse struct {
	Validation simulation.Validation `json:"validation"`
	Status     session.Status        `json:"status"`
}

type historyResponse struct {
	PlayerID string         `json:"player_id"`
	Ticks    []historyEntry `json:"ticks"`
}

type historyEntry struct {
	ID                 string                   `json:"id"`
	Day                int                      `json:"day"`
	Deltas             simulation.ResourceDelta `json:"deltas"`
	Resources          simulation.Resources     `json:"resources"`
	CrashKind          simulation.CrashKind     `json:"crash_kind,omitempty"`
	NarrativeTriggered bool                     `json:"narrative_triggered"`
	AppliedAt          time.Time                `json:"applied_at"`
}

type activityStatsResponse struct {
	PlayerID   string                                        `json:"player_id"`
	Activities map[activity.Activity][]simulation.ActivityStat `json:"activities"`
}

func (h Handler) status(c context.Context, ctx *app.RequestContext) {
	sess, err := h.session(c, ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	h.writeStatus(c, ctx, sess)
}

func (h Handler) date(c context.Context, ctx *app.RequestContext) {
	sess, err := h.session(c, ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	formatted, err := sess.FormattedDate(c)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, map[string]string{"date": formatted})
}

func (h Handler) play(c context.Context, ctx *app.RequestContext) {
	sess, err := h.session(c, ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	if err := sess.Play(c); err != nil {
		writeError(ctx, err)
		return
	}
	h.writeStatus(c, ctx, sess)
}

func (h Handler) pause(c context.Context, ctx *app.RequestContext) {
	sess, err := h.session(c, ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	sess.Pause()
	h.writeStatus(c, ctx, sess)
}

func (h Handler) toggle(c context.Context, ctx *app.RequestContext) {
	sess, err := h.session(c, ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	if _, err := sess.Toggle(c); err != nil {
		writeError(ctx, err)
		return
	}
	h.writeStatus(c, ctx, sess)
}

func (h Handler) tick(c context.Context, ctx *app.RequestContext) {
	sess, err := h.session(c, ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	resp, err := sess.TickOnce(c)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) allocation(c context.Context, ctx *app.RequestContext) {
	sess, err := h.session(c, ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	var body allocationRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	st, err := sess.Status(c)
	if err != nil {
		writeError(ctx, err)
		return
	}
	next := body.merge(st.Allocation)

	v, err := sess.SetAllocation(c, next)
	if err != nil {
		writeError(ctx, err)
		return
	}
	st, err = sess.Status(c)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, allocationResponse{Validation: v, Status: st})
}

// merge lets clients send only the activities they changed.
func (r allocationRequest) merge(base simulation.TimeAllocation) simulation.TimeAllocation {
	set := func(dst *float64, v *float64) {
		if v != nil {
			*dst = *v
		}
	}
	set(&base.Study, r.Study)
	set(&base.Work, r.Work)
	set(&base.Social, r.Social)
	set(&base.Rest, r.Rest)
	set(&base.Exercise, r.Exercise)
	return base
}

func (h Handler) paused(c context.Context, ctx *app.RequestContext) {
	sess, err := h.session(c, ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	var body pausedRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	if body.Paused == nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", "paused is required")
		return
	}
	if err := sess.SetPaused(c, *body.Paused); err != nil {
		writeError(ctx, err)
		return
	}
	h.writeStatus(c, ctx, sess)
}

func (h Handler) reset(c context.Context, ctx *app.RequestContext) {
	sess, err := h.session(c, ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	if err := sess.ResetResources(c); err != nil {
		writeError(ctx, err)
		return
	}
	h.writeStatus(c, ctx, sess)
}

func (h Handler) character(c context.Context, ctx *app.RequestContext) {
	if h.Characters == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "character store not configured")
		return
	}
	playerID := h.playerID(ctx)
	if playerID == "" {
		writeError(ctx, session.ErrInvalidPlayer)
		return
	}
	body := ctx.Request.Body()
	ch, err := character.Decode(body)
	if err != nil {
		writeError(ctx, err)
		return
	}
	if ch == nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", "character document is required")
		return
	}
	rec := ports.CharacterRecord{
		PlayerID:  playerID,
		Raw:       append(json.RawMessage(nil), body...),
		UpdatedAt: h.now(),
	}
	if err := h.Characters.Save(c, rec); err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, map[string]any{"player_id": playerID, "saved": true})
}

func (h Handler) history(c context.Context, ctx *app.RequestContext) {
	if h.Journal == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "tick journal not configured")
		return
	}
	playerID := h.playerID(ctx)
	if playerID == "" {
		writeError(ctx, session.ErrInvalidPlayer)
		return
	}
	limit, _ := strconv.Atoi(string(ctx.Query("limit")))
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	records, err := h.Journal.ListByPlayerID(c, playerID, limit)
	if err != nil {
		writeError(ctx, err)
		return
	}
	out := historyResponse{PlayerID: playerID, Ticks: make([]historyEntry, 0, len(records))}
	for _, r := range records {
		out.Ticks = append(out.Ticks, historyEntry{
			ID:                 r.ID,
			Day:                r.Day,
			Deltas:             r.Deltas,
			Resources:          r.Resources,
			CrashKind:          r.CrashKind,
			NarrativeTriggered: r.NarrativeTriggered,
			AppliedAt:          r.AppliedAt,
		})
	}
	ctx.JSON(consts.StatusOK, out)
}

func (h Handler) activityStats(c context.Context, ctx *app.RequestContext) {
	playerID := h.playerID(ctx)
	if playerID == "" {
		writeError(ctx, session.ErrInvalidPlayer)
		return
	}
	ch := tick.LoadCharacter(c, h.Characters, playerID, h.Logger)
	out := activityStatsResponse{
		PlayerID:   playerID,
		Activities: make(map[activity.Activity][]simulation.ActivityStat, len(activity.All)),
	}
	for _, act := range activity.All {
		out.Activities[act] = simulation.ActivityStats(act, ch)
	}
	ctx.JSON(consts.StatusOK, out)
}

type kpiSnapshotProvider interface {
	SnapshotAny() any
}

func (h Handler) kpi(_ context.Context, ctx *app.RequestContext) {
	if h.KPI == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "kpi provider not configured")
		return
	}
	ctx.JSON(consts.StatusOK, h.KPI.SnapshotAny())
}

func (h Handler) writeStatus(c context.Context, ctx *app.RequestContext, sess *session.Controller) {
	st, err := sess.Status(c)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, st)
}

func (h Handler) session(c context.Context, ctx *app.RequestContext) (*session.Controller, error) {
	if h.Sessions == nil {
		return nil, errSessionsNotConfigured
	}
	return h.Sessions.Get(c, h.playerID(ctx))
}

func (h Handler) playerID(ctx *app.RequestContext) string {
	if id := strings.TrimSpace(string(ctx.GetHeader(playerIDHeader))); id != "" {
		return id
	}
	if id := strings.TrimSpace(string(ctx.Query("player_id"))); id != "" {
		return id
	}
	return strings.TrimSpace(h.DefaultPlayerID)
}

func (h Handler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

func decodeJSON(ctx *app.RequestContext, out any) error {
	body := ctx.Request.Body()
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

var errSessionsNotConfigured = errors.New("sessions not configured")

func writeError(ctx *app.RequestContext, err error) {
	switch {
	case errors.Is(err, simulation.ErrCorruptState):
		writeErrorBody(ctx, consts.StatusConflict, "corrupt_state", err.Error())
	case errors.Is(err, session.ErrInvalidAllocation):
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_allocation", err.Error())
	case errors.Is(err, session.ErrRecoveryActive),
		errors.Is(err, tick.ErrRecoveryActive):
		writeErrorBody(ctx, consts.StatusConflict, "recovery_active", err.Error())
	case errors.Is(err, session.ErrCannotPlay):
		writeErrorBody(ctx, consts.StatusConflict, "cannot_play", err.Error())
	case errors.Is(err, character.ErrUnknownCharacterVariant):
		writeErrorBody(ctx, consts.StatusBadRequest, "unknown_character_variant", err.Error())
	case errors.Is(err, session.ErrInvalidPlayer),
		errors.Is(err, tick.ErrInvalidRequest):
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, ports.ErrNotFound):
		writeErrorBody(ctx, consts.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, ports.ErrConflict):
		writeErrorBody(ctx, consts.StatusConflict, "conflict", err.Error())
	case errors.Is(err, errSessionsNotConfigured):
		writeErrorBody(ctx, consts.StatusServiceUnavailable, "not_configured", err.Error())
	default:
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
			return
		}
		writeErrorBody(ctx, consts.StatusInternalServerError, "internal_error", "internal error")
	}
}

func writeErrorBody(ctx *app.RequestContext, status int, code, message string) {
	ctx.JSON(status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
