package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/google/go-querystring/query"
	"github.com/gr-butler/lorastation/db/postgres"
	"github.com/gr-butler/lorastation/env"
	"github.com/gr-butler/lorastation/obs"

	logger "github.com/sirupsen/logrus"
)

/*

https://wow.metoffice.gov.uk/support/dataformats

WOW expects an HTTP GET to http://wow.metoffice.gov.uk/automaticreading?
followed by key/value pairs. All uploads must contain siteid,
siteAuthenticationKey, dateutc (YYYY-mm-DD HH:mm:ss, UTC) and softwaretype,
plus at least one piece of weather data. Imperial units throughout:
baromin (inHg), rainin/dailyrainin (inches), tempf (F), winddir (0-360),
windspeedmph / windgustmph.

*/

const wowBaseUrl = "http://wow.metoffice.gov.uk/automaticreading?"

type wowData struct {
	SiteId       string  `url:"siteid,omitempty"`
	AuthKey      string  `url:"siteAuthenticationKey,omitempty"`
	DateString   string  `url:"dateutc,omitempty"`
	SoftwareType string  `url:"softwaretype,omitempty"`
	PressureIn   float64 `url:"baromin,omitempty"`
	Humidity     float64 `url:"humidity,omitempty"`
	TempF        float64 `url:"tempf,omitempty"`
	RainIn       float64 `url:"rainin,omitempty"`
	DailyRainIn  float64 `url:"dailyrainin,omitempty"`
	WindDir      float64 `url:"winddir,omitempty"`
	WindSpeedMph float64 `url:"windspeedmph,omitempty"`
	WindGustMph  float64 `url:"windgustmph,omitempty"`
}

// publishReport fans a completed observation out to the local consumers:
// prometheus gauges, the postgres archive and the Met Office WOW upload.
// Everything here works from the decoded record, so what is published is
// exactly what went over the air.
func (w *weatherstation) publishReport(rec obs.Record) {
	Prom_windspeed.Set(rec.WindKmh())
	Prom_windgust.Set(rec.GustKmh())
	Prom_windDirection.Set(normalizeDegrees(rec.WindDirection()))
	Prom_temperature.Set(rec.AirTempC())
	Prom_humidity.Set(rec.Humidity())
	Prom_atmPressure.Set(rec.PressureHpa())
	Prom_rainRatePerHour.Set(rec.RainRateMMHr())
	Prom_rainDayTotal.Set(rec.DailyRainMM())
	Prom_caseTemperature.Set(rec.CaseTempC())

	if w.archive != nil {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			err := w.archive.WriteRecord(ctx, postgres.WriteRecordParams{
				Temperature:     rec.AirTempC(),
				Pressure:        rec.PressureHpa(),
				Humidity:        rec.Humidity(),
				RainRate:        rec.RainRateMMHr(),
				RainDay:         rec.DailyRainMM(),
				WindSpeed:       rec.WindKmh(),
				WindGust:        rec.GustKmh(),
				WindDirection:   normalizeDegrees(rec.WindDirection()),
				GustDirection:   rec.GustDirection(),
				CaseTemperature: rec.CaseTempC(),
			})
			if err != nil {
				logger.Errorf("Failed to write to db [%v]", err)
			}
		}()
	}

	if !*w.args.NoWow && !w.testMode {
		go w.sendToWOW(rec)
	}
}

// sendToWOW uploads one report to the Met Office site. Best effort; a
// failed upload is logged and dropped.
func (w *weatherstation) sendToWOW(rec obs.Record) {
	data := w.prepWowData(rec, time.Now().UTC())

	wowsiteid, idok := os.LookupEnv("WOWSITEID")
	wowpin, pinok := os.LookupEnv("WOWPIN")
	if !(idok && pinok) {
		logger.Error("SiteId and or pin not set! WOWSITEID and WOWPIN must be set.")
		return
	}
	data.SiteId = wowsiteid
	data.AuthKey = wowpin

	vals, _ := query.Values(data)

	client := http.Client{Timeout: time.Second * 30}
	resp, err := client.Get(wowBaseUrl + vals.Encode())
	if err != nil {
		logger.Errorf("Failed to send data [%v]", err)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		logger.Errorf("Failed to send data HTTP [%v]", resp.Status)
	}
}

// prepWowData converts one report to the imperial units WOW expects.
func (w *weatherstation) prepWowData(rec obs.Record, now time.Time) *wowData {
	return &wowData{
		// go magic date is Mon Jan 2 15:04:05 MST 2006
		DateString:   now.Format("2006-01-02+15:04:05"),
		SoftwareType: version,
		PressureIn:   rec.PressureHpa() * env.HPaToInHg,
		Humidity:     rec.Humidity(),
		TempF:        ctof(rec.AirTempC()),
		RainIn:       mmToIn(rec.RainRateMMHr()),
		DailyRainIn:  mmToIn(rec.DailyRainMM()),
		WindDir:      normalizeDegrees(rec.WindDirection()),
		WindSpeedMph: kmhToMph(rec.WindKmh()),
		WindGustMph:  kmhToMph(rec.GustKmh()),
	}
}

// normalizeDegrees folds an extended-range direction back onto the 0-360
// compass for consumers that don't understand the wrap encoding.
func normalizeDegrees(deg float64) float64 {
	for deg < 0 {
		deg += 360
	}
	for deg >= 360 {
		deg -= 360
	}
	return deg
}

func ctof(c float64) float64 {
	//(0degC x 9/5) + 32 = 32degF
	return (c * 9 / 5) + 32
}

func mmToIn(mm float64) float64 {
	return mm / env.MmToInch
}

func kmhToMph(kmh float64) float64 {
	return kmh / 1.609
}
