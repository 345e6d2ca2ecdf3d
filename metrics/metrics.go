package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	PassesRun = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tradingbot_passes_total",
			Help: "Total number of completed strategy passes.",
		},
	)

	OrdersSubmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tradingbot_orders_submitted_total",
			Help: "Orders accepted by the broker, by logged action.",
		},
		[]string{"action"},
	)

	OrdersRejected = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tradingbot_orders_rejected_total",
			Help: "Orders the broker declined.",
		},
	)

	SymbolsSkipped = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tradingbot_symbols_skipped_total",
			Help: "Symbols skipped during a pass, by reason.",
		},
		[]string{"reason"},
	)

	TradeEventsLogged = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tradingbot_trade_events_total",
			Help: "Trade events appended to the log.",
		},
	)

	EquityGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "tradingbot_equity",
			Help: "Account equity observed at the end of the last pass.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		PassesRun,
		OrdersSubmitted,
		OrdersRejected,
		SymbolsSkipped,
		TradeEventsLogged,
		EquityGauge,
	)
}
