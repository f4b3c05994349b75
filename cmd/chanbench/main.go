// Command chanbench measures conduit channel throughput under a fan-in/fan-out
// workload: a set of senders pushes sequential tickets through one channel to a
// set of receivers, which verify that every ticket arrives exactly once.
//
// Configuration is taken from the environment (optionally via a .env file):
//
//	CAPACITY     channel capacity; -1 for unbounded (default 0)
//	SENDERS      number of sending goroutines (default 4)
//	RECEIVERS    number of receiving goroutines (default 4)
//	MESSAGES     number of tickets to push (default 1000000)
//	METRICS_ADDR optional address to serve Prometheus metrics on, e.g. :9091
package main

import (
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/caarlos0/env/v11"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/destel/conduit"
	"github.com/destel/conduit/metrics"
)

type config struct {
	Capacity    int    `env:"CAPACITY" envDefault:"0"`
	Senders     int    `env:"SENDERS" envDefault:"4"`
	Receivers   int    `env:"RECEIVERS" envDefault:"4"`
	Messages    uint64 `env:"MESSAGES" envDefault:"1000000"`
	MetricsAddr string `env:"METRICS_ADDR"`
}

func main() {
	var cfg config
	if err := env.Parse(&cfg); err != nil {
		logrus.WithError(err).Fatal("failed to parse configuration")
	}

	log := logrus.WithFields(logrus.Fields{
		"capacity":  cfg.Capacity,
		"senders":   cfg.Senders,
		"receivers": cfg.Receivers,
		"messages":  cfg.Messages,
	})

	ch := conduit.New[uint64](cfg.Capacity)

	if cfg.MetricsAddr != "" {
		collector := metrics.NewCollector("chanbench")
		collector.Watch("tickets", ch)

		registry := prometheus.NewRegistry()
		registry.MustRegister(collector)

		go func() {
			err := http.ListenAndServe(cfg.MetricsAddr, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
			logrus.WithError(err).Error("metrics server stopped")
		}()
		log = log.WithField("metrics_addr", cfg.MetricsAddr)
	}

	log.Info("starting workload")
	elapsed, err := run(ch, cfg)
	if err != nil {
		log.WithError(err).Fatal("workload failed")
	}

	log.WithFields(logrus.Fields{
		"elapsed":     elapsed,
		"msg_per_sec": uint64(float64(cfg.Messages) / elapsed.Seconds()),
	}).Info("workload finished")
}

func run(ch conduit.Chan[uint64], cfg config) (time.Duration, error) {
	marks := make([]int32, cfg.Messages)
	var next uint64

	start := time.Now()

	var senders sync.WaitGroup
	for i := 0; i < cfg.Senders; i++ {
		senders.Add(1)
		go func() {
			defer senders.Done()
			for {
				v := atomic.AddUint64(&next, 1) - 1
				if v >= cfg.Messages {
					return
				}
				if !conduit.SendValue[uint64](ch, v) {
					return
				}
			}
		}()
	}

	var receivers sync.WaitGroup
	var received uint64
	for i := 0; i < cfg.Receivers; i++ {
		receivers.Add(1)
		go func() {
			defer receivers.Done()
			for {
				v, ok := conduit.RecvValue[uint64](ch)
				if !ok {
					return
				}
				atomic.AddInt32(&marks[v], 1)
				atomic.AddUint64(&received, 1)
			}
		}()
	}

	senders.Wait()

	// wait until the buffer is drained and all receivers hang again,
	// then release them
	for ch.Size() != -cfg.Receivers {
		time.Sleep(time.Millisecond)
	}
	ch.Close()
	receivers.Wait()

	elapsed := time.Since(start)

	for i := range marks {
		if marks[i] != 1 {
			return elapsed, fmt.Errorf("ticket %d delivered %d times", i, marks[i])
		}
	}
	return elapsed, nil
}
