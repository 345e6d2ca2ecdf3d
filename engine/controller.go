// Package engine orchestrates the periodic decision passes: it snapshots
// the configuration, walks the active symbols, runs the signal evaluator
// and dispatches approved actions to the broker and the trade log.
package engine

import (
	"context"
	"math"
	"time"

	"github.com/JMitchell7425/Trading-Bot/broker"
	"github.com/JMitchell7425/Trading-Bot/config"
	"github.com/JMitchell7425/Trading-Bot/indicator"
	"github.com/JMitchell7425/Trading-Bot/logger"
	"github.com/JMitchell7425/Trading-Bot/metrics"
	"github.com/JMitchell7425/Trading-Bot/pacing"
	"github.com/JMitchell7425/Trading-Bot/risk"
	"github.com/JMitchell7425/Trading-Bot/signal"
	"github.com/JMitchell7425/Trading-Bot/store"
	"github.com/JMitchell7425/Trading-Bot/types"
)

// DefaultTimeframe is the bar resolution every pass evaluates.
const DefaultTimeframe = "1Min"

// Controller runs one full evaluation pass over the active symbol set.
// It owns no market state of its own; everything it needs is read fresh
// at the start of each pass.
type Controller struct {
	cfg       *config.Store
	broker    broker.Broker
	trades    store.TradeLog
	portfolio store.PortfolioLog
	marks     store.MarkStore
	pace      *pacing.Tracker
	log       logger.Logger

	timeframe   string
	callTimeout time.Duration
}

// NewController wires a controller. timeframe defaults to DefaultTimeframe
// and callTimeout to 10s when zero.
func NewController(
	cfg *config.Store,
	bk broker.Broker,
	trades store.TradeLog,
	portfolio store.PortfolioLog,
	marks store.MarkStore,
	log logger.Logger,
) *Controller {
	return &Controller{
		cfg:         cfg,
		broker:      bk,
		trades:      trades,
		portfolio:   portfolio,
		marks:       marks,
		pace:        pacing.NewTracker(trades, 0),
		log:         log,
		timeframe:   DefaultTimeframe,
		callTimeout: 10 * time.Second,
	}
}

// SetCallTimeout overrides the per-call timeout on external collaborators.
func (c *Controller) SetCallTimeout(d time.Duration) { c.callTimeout = d }

// RunPass executes one pass at the given wall-clock time. Errors on one
// symbol never abort the rest; the pass always runs to completion.
func (c *Controller) RunPass(ctx context.Context, now time.Time) {
	cfg := c.cfg.Snapshot()
	if cfg.Paused {
		c.log.Info("pass_paused")
		return
	}
	symbols := cfg.ActiveSymbols()
	if len(symbols) == 0 {
		return
	}

	tctx, cancel := context.WithTimeout(ctx, c.callTimeout)
	equity, eqErr := c.broker.Equity(tctx)
	cancel()
	entriesEnabled := eqErr == nil
	if eqErr != nil {
		// Never size off a stale value: entries stand down, exits still run.
		c.log.Warn("equity_unavailable", logger.Err(eqErr))
	}

	spacing := time.Duration(cfg.MinTradeSpacingMinutes) * time.Minute
	for _, sym := range symbols {
		c.evalSymbol(ctx, cfg, sym, now, equity, entriesEnabled, spacing)
	}

	if eqErr == nil {
		metrics.EquityGauge.Set(equity)
		if err := c.portfolio.Append(now, equity); err != nil {
			c.log.Warn("portfolio_log_failed", logger.Err(err))
		}
	}
	metrics.PassesRun.Inc()
}

func (c *Controller) evalSymbol(
	ctx context.Context,
	cfg config.StrategyConfig,
	sym string,
	now time.Time,
	equity float64,
	entriesEnabled bool,
	spacing time.Duration,
) {
	if !c.pace.MayTrade(sym, now, spacing) {
		metrics.SymbolsSkipped.WithLabelValues("pacing").Inc()
		return
	}

	tctx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	bars, err := c.broker.GetBars(tctx, sym, c.timeframe, cfg.BarCount)
	if err != nil || len(bars) == 0 {
		c.log.Warn("bars_unavailable", logger.String("symbol", sym), logger.Err(err))
		metrics.SymbolsSkipped.WithLabelValues("data").Inc()
		return
	}
	closes := make([]float64, len(bars))
	volumes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
		volumes[i] = b.Volume
	}
	price := closes[len(closes)-1]

	pos, hasPos, err := c.broker.Position(tctx, sym)
	if err != nil {
		c.log.Warn("position_unavailable", logger.String("symbol", sym), logger.Err(err))
		metrics.SymbolsSkipped.WithLabelValues("account").Inc()
		return
	}

	mark, hasMark, err := c.marks.Mark(sym)
	if err != nil {
		c.log.Warn("mark_unavailable", logger.String("symbol", sym), logger.Err(err))
		hasMark = false
	}

	d := signal.Evaluate(signal.Input{
		Cfg:            cfg,
		Closes:         closes,
		Volumes:        volumes,
		Price:          price,
		Position:       pos,
		HasPosition:    hasPos,
		TrailingRef:    mark,
		HasTrailingRef: hasMark,
	})

	switch d.Kind {
	case signal.Skip:
		metrics.SymbolsSkipped.WithLabelValues("signal").Inc()
		c.log.Info("symbol_skipped", logger.String("symbol", sym), logger.String("reason", d.Reason))

	case signal.Hold:
		if hasPos && cfg.TrailingStop() {
			c.ratchetMark(sym, pos, price, mark, hasMark)
		}

	case signal.EnterLong, signal.EnterShort:
		if !entriesEnabled {
			metrics.SymbolsSkipped.WithLabelValues("account").Inc()
			return
		}
		c.enter(tctx, cfg, d, sym, now, equity, price, closes)

	case signal.Exit:
		c.exit(tctx, cfg, d, sym, now, pos, price)
	}
}

func (c *Controller) enter(
	ctx context.Context,
	cfg config.StrategyConfig,
	d signal.Decision,
	sym string,
	now time.Time,
	equity, price float64,
	closes []float64,
) {
	qty := risk.Size(equity, price, indicator.Volatility(closes), cfg)

	if cfg.TestMode {
		// Simulated entry: log the event, touch nothing else.
		c.appendEvent(types.TradeEvent{Timestamp: now, Symbol: sym, Action: types.ActionTestBuy, Price: price})
		c.log.Info("test_entry",
			logger.String("symbol", sym), logger.Int("qty", qty), logger.Float64("price", price))
		return
	}

	side, action := types.Buy, types.ActionBuy
	if d.Kind == signal.EnterShort {
		side, action = types.Sell, types.ActionShort
	}
	order := types.Order{Symbol: sym, Qty: qty, Side: side, Type: "market", TimeInForce: "gtc"}
	if err := c.broker.SubmitOrder(ctx, order); err != nil {
		// The log reflects only accepted actions; a declined order
		// leaves no trade event behind.
		c.log.Error("order_rejected",
			logger.String("symbol", sym), logger.String("side", string(side)), logger.Err(err))
		metrics.OrdersRejected.Inc()
		return
	}
	metrics.OrdersSubmitted.WithLabelValues(string(action)).Inc()
	c.appendEvent(types.TradeEvent{Timestamp: now, Symbol: sym, Action: action, Price: price})
	c.log.Info("order_submitted",
		logger.String("symbol", sym), logger.String("side", string(side)),
		logger.Int("qty", qty), logger.Float64("price", price), logger.String("reason", d.Reason))

	if cfg.TrailingStop() {
		if err := c.marks.SetMark(sym, price); err != nil {
			c.log.Warn("mark_update_failed", logger.String("symbol", sym), logger.Err(err))
		}
	}
}

func (c *Controller) exit(
	ctx context.Context,
	cfg config.StrategyConfig,
	d signal.Decision,
	sym string,
	now time.Time,
	pos types.Position,
	price float64,
) {
	qty := int(math.Round(math.Abs(pos.Qty)))
	if qty == 0 {
		return
	}
	side := types.Sell
	if pos.Short() {
		side = types.Buy
	}
	order := types.Order{Symbol: sym, Qty: qty, Side: side, Type: "market", TimeInForce: "gtc"}
	if err := c.broker.SubmitOrder(ctx, order); err != nil {
		c.log.Error("order_rejected",
			logger.String("symbol", sym), logger.String("side", string(side)), logger.Err(err))
		metrics.OrdersRejected.Inc()
		return
	}
	metrics.OrdersSubmitted.WithLabelValues(string(d.ExitAction)).Inc()
	c.appendEvent(types.TradeEvent{Timestamp: now, Symbol: sym, Action: d.ExitAction, Price: price})
	c.log.Info("position_closed",
		logger.String("symbol", sym), logger.String("action", string(d.ExitAction)),
		logger.Int("qty", qty), logger.Float64("price", price))

	if cfg.ResetHighWaterOnExit {
		if err := c.marks.ClearMark(sym); err != nil {
			c.log.Warn("mark_clear_failed", logger.String("symbol", sym), logger.Err(err))
		}
	}
}

// ratchetMark advances the trailing reference: the highest price seen
// since entry for longs, the lowest for shorts. A missing mark is seeded
// from the more favorable of entry and the current price.
func (c *Controller) ratchetMark(sym string, pos types.Position, price, mark float64, hasMark bool) {
	var next float64
	switch {
	case pos.Long():
		next = math.Max(pos.EntryPrice, price)
		if hasMark {
			next = math.Max(mark, price)
		}
		if hasMark && next <= mark {
			return
		}
	case pos.Short():
		next = math.Min(pos.EntryPrice, price)
		if hasMark {
			next = math.Min(mark, price)
		}
		if hasMark && next >= mark {
			return
		}
	default:
		return
	}
	if err := c.marks.SetMark(sym, next); err != nil {
		c.log.Warn("mark_update_failed", logger.String("symbol", sym), logger.Err(err))
	}
}

func (c *Controller) appendEvent(ev types.TradeEvent) {
	if err := c.trades.Append(ev); err != nil {
		c.log.Error("trade_log_failed",
			logger.String("symbol", ev.Symbol), logger.String("action", string(ev.Action)), logger.Err(err))
		return
	}
	metrics.TradeEventsLogged.Inc()
}
