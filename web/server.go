// Package web serves the read-only dashboard and the operator surface.
// Everything it touches goes through the thread-safe config store and the
// storage interfaces, so serving a page never blocks a trading pass.
package web

import (
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/JMitchell7425/Trading-Bot/broker"
	"github.com/JMitchell7425/Trading-Bot/config"
	"github.com/JMitchell7425/Trading-Bot/logger"
	"github.com/JMitchell7425/Trading-Bot/store"
)

const historyLimit = 100

// Server renders the dashboard and exposes the config API.
type Server struct {
	cfg       *config.Store
	trades    store.TradeLog
	portfolio store.PortfolioLog
	account   broker.Account
	log       logger.Logger
	upgrader  websocket.Upgrader
}

// NewServer wires the web surface.
func NewServer(
	cfg *config.Store,
	trades store.TradeLog,
	portfolio store.PortfolioLog,
	account broker.Account,
	log logger.Logger,
) *Server {
	return &Server{
		cfg:       cfg,
		trades:    trades,
		portfolio: portfolio,
		account:   account,
		log:       log,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Router builds the gin engine with every route attached.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.SetHTMLTemplate(template.Must(template.New("dashboard").Parse(dashboardHTML)))

	r.GET("/", s.dashboard)
	r.GET("/api/trades", s.recentTrades)
	r.GET("/api/positions", s.positions)
	r.GET("/api/portfolio", s.portfolioHistory)
	r.GET("/api/config", s.getConfig)
	r.PUT("/api/config", s.putConfig)
	r.GET("/ws", s.equityStream)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return r
}

func (s *Server) dashboard(c *gin.Context) {
	trades, err := s.trades.Recent(historyLimit)
	if err != nil {
		s.log.Warn("dashboard_trades_unavailable", logger.Err(err))
	}
	samples, err := s.portfolio.Recent(historyLimit)
	if err != nil {
		s.log.Warn("dashboard_portfolio_unavailable", logger.Err(err))
	}
	labels := make([]string, len(samples))
	values := make([]float64, len(samples))
	for i, p := range samples {
		labels[i] = p.Timestamp.Format("01-02 15:04")
		values[i] = p.Equity
	}
	// Positions come straight from the broker; a dead account query
	// renders an empty table instead of an error page.
	positions, err := s.account.ListPositions(c.Request.Context())
	if err != nil {
		s.log.Warn("dashboard_positions_unavailable", logger.Err(err))
	}
	c.HTML(http.StatusOK, "dashboard", gin.H{
		"Trades":      trades,
		"Positions":   positions,
		"ChartLabels": labels,
		"ChartData":   values,
	})
}

func (s *Server) recentTrades(c *gin.Context) {
	trades, err := s.trades.Recent(historyLimit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, trades)
}

func (s *Server) positions(c *gin.Context) {
	positions, err := s.account.ListPositions(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, positions)
}

func (s *Server) portfolioHistory(c *gin.Context) {
	samples, err := s.portfolio.Recent(historyLimit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, samples)
}

func (s *Server) getConfig(c *gin.Context) {
	c.JSON(http.StatusOK, s.cfg.Snapshot())
}

// putConfig replaces the whole strategy document. Unknown or invalid
// values are rejected and the running config stays untouched.
func (s *Server) putConfig(c *gin.Context) {
	next := s.cfg.Snapshot()
	if err := c.ShouldBindJSON(&next); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.cfg.Replace(next); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.log.Info("config_updated")
	c.JSON(http.StatusOK, s.cfg.Snapshot())
}

// equityStream pushes an equity snapshot every few seconds until the
// client goes away.
func (s *Server) equityStream(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.Warn("ws_upgrade_failed", logger.Err(err))
		return
	}
	defer conn.Close()

	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()
	for {
		equity, err := s.account.Equity(c.Request.Context())
		if err != nil {
			if werr := conn.WriteJSON(gin.H{"error": "account unavailable"}); werr != nil {
				return
			}
		} else {
			if werr := conn.WriteJSON(gin.H{
				"time":   time.Now().UTC().Format(time.RFC3339),
				"equity": equity,
			}); werr != nil {
				return
			}
		}
		select {
		case <-c.Request.Context().Done():
			return
		case <-ticker.C:
		}
	}
}

const dashboardHTML = `<!DOCTYPE html>
<html><head><title>Trading Bot Dashboard</title>
<style>
body { font-family: Arial, sans-serif; padding: 20px; }
table { width: 100%; border-collapse: collapse; margin-bottom: 30px; }
th, td { border: 1px solid #ccc; padding: 8px; text-align: center; }
th { background-color: #f2f2f2; }
h1, h2 { color: #333; }
</style></head>
<body>
<h1>Trading Bot Dashboard</h1>
<h2>Current Positions</h2>
<table><tr><th>Symbol</th><th>Quantity</th><th>Avg Entry</th></tr>
{{range .Positions}}
<tr><td>{{.Symbol}}</td><td>{{.Qty}}</td><td>${{.EntryPrice}}</td></tr>
{{end}}
</table>
<h2>Portfolio Value</h2>
<canvas id="portfolioChart" height="80"></canvas>
<h2>Trade History</h2>
<table><tr><th>Time</th><th>Symbol</th><th>Action</th><th>Price</th></tr>
{{range .Trades}}
<tr><td>{{.Timestamp.Format "2006-01-02 15:04:05"}}</td><td>{{.Symbol}}</td><td>{{.Action}}</td><td>${{.Price}}</td></tr>
{{end}}
</table>
<script src="https://cdn.jsdelivr.net/npm/chart.js"></script>
<script>
new Chart(document.getElementById('portfolioChart').getContext('2d'), {
  type: 'line',
  data: {
    labels: {{.ChartLabels}},
    datasets: [{
      label: 'Portfolio Value ($)',
      data: {{.ChartData}},
      borderColor: 'green',
      fill: false,
      tension: 0.2
    }]
  }
});
</script>
</body></html>`
