// The scalar-data daemon: subscribes to vehicle telemetry over UDP,
// decimates it into per-field buffers, and serves queries, plots and
// session archives over HTTP.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"

	"gopkg.in/yaml.v3"

	scalardata "github.com/lauralindzey/nui-scalar-data"
	"github.com/lauralindzey/nui-scalar-data/hub"
	"github.com/lauralindzey/nui-scalar-data/metrics"
	"github.com/lauralindzey/nui-scalar-data/transport"
	"github.com/lauralindzey/nui-scalar-data/ui"
)

var (
	fConfig    string
	fHTTPAddr  string
	fUDPAddr   string
	fVerbosity int
)

func init() {
	flag.StringVar(&fConfig, "config", "", "YAML config file (see Config)")
	flag.StringVar(&fHTTPAddr, "http", "", "HTTP listen address (overrides config)")
	flag.StringVar(&fUDPAddr, "udp", "", "UDP listen address (overrides config)")
	flag.IntVar(&fVerbosity, "v", 0, "verbosity level")
	flag.Parse()
}

type Config struct {
	HTTPAddr string `yaml:"http_addr"`
	UDPAddr  string `yaml:"udp_addr"`

	InitChannel      string   `yaml:"init_channel"`
	PositionChannels []string `yaml:"position_channels"`

	GCSBucket string `yaml:"gcs_bucket"`
	BQProject string `yaml:"bq_project"`
	BQDataset string `yaml:"bq_dataset"`
	BQTable   string `yaml:"bq_table"`

	Subscriptions scalardata.Subscriptions `yaml:"subscriptions"`
}

func (c *Config)applyDefaults() {
	if c.HTTPAddr == "" { c.HTTPAddr = ":8087" }
	if c.UDPAddr == ""  { c.UDPAddr = ":9870" }
	if c.BQDataset == "" { c.BQDataset = "telemetry" }
	if c.BQTable == ""   { c.BQTable = "samples" }
}

func loadConfig(path string) (*Config, error) {
	c := Config{}
	if path != "" {
		data,err := os.ReadFile(path)
		if err != nil { return nil, err }
		if err := yaml.Unmarshal(data, &c); err != nil { return nil, err }
	}
	c.applyDefaults()
	return &c, nil
}

func main() {
	cfg,err := loadConfig(fConfig)
	if err != nil {
		log.Fatalf("loading config %q: %v", fConfig, err)
	}
	if fHTTPAddr != "" { cfg.HTTPAddr = fHTTPAddr }
	if fUDPAddr != ""  { cfg.UDPAddr = fUDPAddr }

	h := hub.New(hub.Options{
		InitChannel:      cfg.InitChannel,
		PositionChannels: cfg.PositionChannels,
		Verbosity:        fVerbosity,
	})

	for _,sub := range cfg.Subscriptions {
		if err := h.Configure(sub); err != nil {
			log.Printf("skipping subscription %s: %v", sub.Key(), err)
		}
	}

	ctx := context.Background()
	go func() {
		if err := transport.ListenUDP(ctx, cfg.UDPAddr, h.OnMessage); err != nil {
			log.Fatalf("udp listener on %s: %v", cfg.UDPAddr, err)
		}
	}()

	srv := &ui.Server{
		Hub:       h,
		Bucket:    cfg.GCSBucket,
		BQProject: cfg.BQProject,
		BQDataset: cfg.BQDataset,
		BQTable:   cfg.BQTable,
	}

	mux := http.NewServeMux()
	srv.AddHandlers(mux)
	mux.Handle("/metrics", metrics.Handler())

	log.Printf("listening on %s (udp %s), %d subscriptions",
		cfg.HTTPAddr, cfg.UDPAddr, len(h.Keys()))
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, mux))
}
