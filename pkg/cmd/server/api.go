package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo"
	"github.com/labstack/echo/middleware"
	_ "github.com/lib/pq"
	nats "github.com/nats-io/nats.go"
	"github.com/saieshwardev-lab/UrbanEye/config"
	"github.com/saieshwardev-lab/UrbanEye/pkg/api"
	"github.com/saieshwardev-lab/UrbanEye/pkg/jobs"
	"github.com/saieshwardev-lab/UrbanEye/pkg/metrics"
	"github.com/saieshwardev-lab/UrbanEye/pkg/realtime"
	"github.com/saieshwardev-lab/UrbanEye/pkg/storage"
	"github.com/saieshwardev-lab/UrbanEye/pkg/storage/memory"
	"github.com/saieshwardev-lab/UrbanEye/pkg/storage/postgres"
	"github.com/sirupsen/logrus"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type apiServer struct {
	c *config.Config

	quitCh chan bool
	doneCh chan bool

	nc    *nats.Conn
	store storage.Interface
	hub   *realtime.Hub
}

func init() {
	formatter := &logrus.TextFormatter{
		FullTimestamp: true,
	}
	logrus.SetFormatter(formatter)

	// Output to stdout instead of the default stderr
	log.SetOutput(os.Stdout)

	log.SetLevel(log.InfoLevel)
}

func newAPIServer(c *config.Config) (*apiServer, error) {
	s := &apiServer{
		c:      c,
		quitCh: make(chan bool),
		doneCh: make(chan bool),
		hub:    realtime.NewHub(),
	}

	if c.DatabaseURL != "" {
		db, err := sqlx.Connect("postgres", c.DatabaseURL)
		if err != nil {
			return nil, err
		}
		s.store = postgres.NewStore(db)
	} else {
		log.Warn("no DATABASE_URL configured, falling back to memory store")
		s.store = memory.NewStore()
	}

	if c.NATSServerURL != "" {
		nc, err := nats.Connect(c.NATSServerURL,
			nats.DrainTimeout(10*time.Second),
			nats.ErrorHandler(func(_ *nats.Conn, _ *nats.Subscription, err error) {
				log.Error("nats error: ", err)
			}))
		if err != nil {
			return nil, err
		}
		s.nc = nc
	}

	return s, nil
}

func (s *apiServer) Serve() {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(logger())

	// Relay broadcasts go through the bridge so a configured NATS server
	// sees them too; without NATS the bridge is a plain hub passthrough.
	bridge := realtime.NewBridge(s.nc, s.hub)
	if err := bridge.Subscribe(); err != nil {
		log.Error("failed to subscribe realtime bridge: ", err)
	}

	// Register API endpoints
	apiHandler := api.NewHandler(s.store)
	apiHandler.RegisterRoutes(e)

	jobsHandler := jobs.NewHandler(s.store, bridge)
	jobsHandler.RegisterRoutes(e)

	e.Any("/realtime", s.hub.Handler())
	e.GET("/metrics", metrics.Handler())

	go func() {
		log.WithFields(log.Fields{
			"host": s.c.BindHost,
			"port": s.c.BindPort,
		}).Info("Starting server")

		if err := e.Start(fmt.Sprintf("%s:%d", s.c.BindHost, s.c.BindPort)); err != nil {
			e.Logger.Info("Shutting down the server")
		}
	}()

	// Wait until receiving the quit signal
	<-s.quitCh
	log.Info("Shutdown signal received")

	// Create a 10 second timeout context
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown the echo web server
	if err := e.Shutdown(ctx); err != nil {
		e.Logger.Error(err)
	}

	// Disconnect all realtime subscribers
	s.hub.Close()

	// We've done!
	s.doneCh <- true
}

// logger returns a middleware that logs HTTP requests.
func logger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			res := c.Response()
			start := time.Now()

			var err error
			if err = next(c); err != nil {
				c.Error(err)
			}
			stop := time.Now()

			id := req.Header.Get(echo.HeaderXRequestID)
			if id == "" {
				id = res.Header().Get(echo.HeaderXRequestID)
			}
			reqSizeStr := req.Header.Get(echo.HeaderContentLength)
			if reqSizeStr == "" {
				reqSizeStr = "0"
			}
			reqSize, err := strconv.ParseInt(reqSizeStr, 10, 0)
			if err != nil {
				reqSize = -1
			}
			errMsg := ""
			if err != nil {
				errMsg = err.Error()
			}

			metrics.HTTPRequestsTotal.WithLabelValues(req.Method, strconv.Itoa(res.Status)).Inc()

			log.WithFields(log.Fields{
				"timestamp":     stop.Format(time.RFC3339),
				"id":            id,
				"remote_ip":     c.RealIP(),
				"host":          req.Host,
				"method":        req.Method,
				"uri":           req.RequestURI,
				"protocol":      req.Proto,
				"user_agent":    req.UserAgent(),
				"status":        res.Status,
				"status_text":   http.StatusText(res.Status),
				"referer":       req.Referer(),
				"error":         errMsg,
				"bytes_in":      reqSize,
				"bytes_out":     res.Size,
				"latency":       stop.Sub(start).Nanoseconds(),
				"latency_human": stop.Sub(start).String(),
			}).Infof("%s %s %s %d %s", req.Method, req.RequestURI, req.Proto,
				res.Status, strconv.FormatInt(res.Size, 10))

			return err
		}
	}
}

func (s *apiServer) Shutdown() {
	if s.nc != nil {
		s.nc.Drain()
	}

	// Send the quit signal to the server.Serve() routine
	s.quitCh <- true

	// Wait up to 10 seconds
	select {
	case <-s.doneCh:
		log.Info("Shutdown server successful")
	case <-time.After(10 * time.Second):
		log.Error("Shutdown server failed")
	}
}

func RunServeAPI(c *config.Config) func(cmd *cobra.Command, args []string) {
	return func(cmd *cobra.Command, args []string) {
		s, err := newAPIServer(c)
		if err != nil {
			log.Error("failed to create new server instance: ", err)
			os.Exit(1)
		}

		go s.Serve()

		// Wait for interrupt signal to gracefully shutdown the server
		quitCh := make(chan os.Signal, 1)
		signal.Notify(quitCh, os.Interrupt)
		<-quitCh

		// Shutdown the server
		s.Shutdown()
	}
}
