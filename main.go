package main

import (
	"context"
	"encoding/json"
	"flag"
	"net/http"
	"os"
	"time"

	"github.com/gr-butler/lorastation/counter"
	"github.com/gr-butler/lorastation/db/postgres"
	"github.com/gr-butler/lorastation/env"
	"github.com/gr-butler/lorastation/led"
	"github.com/gr-butler/lorastation/obs"
	"github.com/gr-butler/lorastation/sampler"
	"github.com/gr-butler/lorastation/sensors"
	"github.com/gr-butler/lorastation/transport"
	"github.com/gr-butler/lorastation/vane"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	logger "github.com/sirupsen/logrus"
)

const version = "GRB-LoraStation-1.0.3"

type weatherstation struct {
	s        *sensors.Sensors
	inst     instruments
	uplink   uplink
	archive  *postgres.Archive
	args     env.Args
	clock    clockwork.Clock
	testMode bool

	wind    *counter.Debounced
	rain    *counter.Debounced
	sampler *sampler.Sampler
	vane    *vane.Averager
	obs     *obs.DoubleBuffer
	daily   *dailyEvaluator
	hbLed   *led.LED

	// aggregator state, owned by the main loop
	sampleCount  int
	windSpeed    float64
	windGust     float64
	gustDirn     int
	airTempC     float64
	caseTempC    float64
	humidity     float64
	pressureHpa  float64
	baselineTips int64
}

type webdata struct {
	TimeNow    string  `json:"time"`
	Temp       float64 `json:"temp_C"`
	CaseTemp   float64 `json:"case_temp_C"`
	Humidity   float64 `json:"humidity_RH"`
	Pressure   float64 `json:"pressure_hPa"`
	RainRate   float64 `json:"rain_rate_mm_hr"`
	RainDay    float64 `json:"rain_day_mm"`
	WindDir    float64 `json:"wind_dir"`
	WindSpeed  float64 `json:"wind_speed_kmh"`
	WindGust   float64 `json:"wind_gust_kmh"`
	GustDir    float64 `json:"wind_gust_dir"`
	RainTips   int64   `json:"rain_tips_day"`
	LastTip    string  `json:"last_rain_tip,omitempty"`
}

var Prom_atmPressure = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "atmospheric_pressure",
		Help: "Atmospheric pressure hPa",
	},
)

var Prom_rainRatePerHour = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "rain_hour_rate",
		Help: "The rain rate based on the last report period",
	},
)

var Prom_rainDayTotal = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "rain_day",
		Help: "The rain total today (24h to 9am local)",
	},
)

var Prom_humidity = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "relative_humidity",
		Help: "Relative Humidity",
	},
)

var Prom_temperature = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "temperature",
		Help: "Temperature C",
	},
)

var Prom_caseTemperature = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "case_temperature",
		Help: "Enclosure temperature C",
	},
)

var Prom_windspeed = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "windspeed",
		Help: "Wind speed km/h at report close",
	},
)

var Prom_windgust = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "windgust",
		Help: "Gust speed km/h for the report period",
	},
)

var Prom_windDirection = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "winddirection",
		Help: "Wind Direction Deg",
	},
)

// called by prometheus
func init() {
	logger.Infof("%v: Initialize prometheus...", time.Now().Format(time.RFC822))
	prometheus.MustRegister(
		Prom_atmPressure,
		Prom_humidity,
		Prom_rainRatePerHour,
		Prom_rainDayTotal,
		Prom_temperature,
		Prom_caseTemperature,
		Prom_windspeed,
		Prom_windgust,
		Prom_windDirection)
}

func main() {
	logger.Infof("Starting weather station [%v]", version)

	args := env.Args{
		Test:     flag.Bool("test", false, "test mode, does not send data to the uplink or WOW"),
		Verbose:  flag.Bool("verbose", false, "verbose logging"),
		NoUplink: flag.Bool("noup", false, "run without the radio uplink"),
		NoWow:    flag.Bool("nowow", false, "do not send data to the Met Office"),
		Speedon:  flag.Bool("speedon", false, "log every wind speed sample"),
		Diron:    flag.Bool("diron", false, "log every wind vane reading"),
	}
	flag.Parse()

	if *args.Verbose {
		logger.SetLevel(logger.DebugLevel)
	}
	if *args.Test {
		logger.Info("TEST MODE")
	}

	w := newWeatherstation(clockwork.NewRealClock(), args)
	w.testMode = *args.Test

	// timezone rule for the daily boundary, fixed at startup
	tzName, ok := os.LookupEnv("TIMEZONE")
	if !ok {
		tzName = "Australia/Sydney"
	}
	location, err := time.LoadLocation(tzName)
	if err != nil {
		logger.Errorf("Failed to load timezone [%v] [%v]", tzName, err)
		logger.Exit(1)
	}
	w.daily = newDailyEvaluator(env.EndOfDayHour, env.ReportPeriod, location)

	logger.Infof("%v: Initialize sensors...", time.Now().Format(time.RFC822))
	w.s = &sensors.Sensors{}
	if err := w.s.InitSensors(args, w.wind, w.rain); err != nil {
		logger.Errorf("Failed to initialise sensors!! [%v]", err)
		logger.Exit(1)
	}
	defer (*w.s.IIC.Bus).Close()
	w.inst = w.s

	w.hbLed = led.NewLED("Heartbeat", env.HeartbeatLed)

	if !*args.NoUplink && !w.testMode {
		session, err := transport.LoadSession()
		if err != nil {
			logger.Errorf("Failed to load link session [%v]", err)
			logger.Exit(1)
		}
		broker, ok := os.LookupEnv("MQTT_BROKER")
		if !ok {
			broker = "tcp://localhost:1883"
		}
		txLed := led.NewLED("TX", env.TxLed)
		up, err := transport.NewMQTTUplink(broker, session, txLed)
		if err != nil {
			logger.Errorf("Failed to start uplink [%v]", err)
			logger.Exit(1)
		}
		w.uplink = up
	}

	if dsn, ok := os.LookupEnv("DATABASE_URL"); ok && dsn != "" {
		archive, err := postgres.New(dsn)
		if err != nil {
			logger.Errorf("Failed to open observation archive [%v]", err)
			logger.Exit(1)
		}
		w.archive = archive
		defer w.archive.Close()
	}

	ctx := context.Background()

	// start go routines
	go w.sampler.Run(ctx)
	go w.runAggregator(ctx)
	go w.heartbeat()

	// start web service
	http.HandleFunc("/", w.handler)
	http.Handle("/metrics", promhttp.Handler())
	logger.Info("Starting webservice...")
	logger.Fatal(http.ListenAndServe(":80", nil))
}

func (w *weatherstation) heartbeat() {
	logger.Info("Heartbeat started")
	// just flash to say we're alive
	for {
		w.hbLed.Flash(env.LEDFlashDuration)
		time.Sleep(time.Second * 30)
	}
}

// handler serves the last completed observation, decoded back to physical
// units.
func (w *weatherstation) handler(rw http.ResponseWriter, r *http.Request) {
	rw.Header().Set("Content-Type", "application/json")
	rec := w.obs.Report()
	wd := webdata{
		TimeNow:   time.Now().Format(time.RFC822),
		Temp:      rec.AirTempC(),
		CaseTemp:  rec.CaseTempC(),
		Humidity:  rec.Humidity(),
		Pressure:  rec.PressureHpa(),
		RainRate:  rec.RainRateMMHr(),
		RainDay:   rec.DailyRainMM(),
		WindDir:   normalizeDegrees(rec.WindDirection()),
		WindSpeed: rec.WindKmh(),
		WindGust:  rec.GustKmh(),
		GustDir:   rec.GustDirection(),
	}
	tips, lastTip := w.rain.Snapshot()
	wd.RainTips = tips
	if !lastTip.IsZero() {
		wd.LastTip = lastTip.Format(time.RFC822)
	}

	js, err := json.Marshal(wd)
	if err != nil {
		logger.Errorf("JSON error [%v]", err)
		http.Error(rw, err.Error(), http.StatusInternalServerError)
		return
	}
	_, _ = rw.Write(js) // not much we can do if this fails
}
