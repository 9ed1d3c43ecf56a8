package monitoring

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/eaugusto/registry/internal/config"
	"github.com/eaugusto/registry/pkg/dto"
	"github.com/eaugusto/registry/pkg/logging"
	"github.com/gorilla/mux"
	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	influxdb2API "github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

const (
	// influxdbContextKey is a key (dto.ContextKey) to reference the influxdb data point in the request context.
	influxdbContextKey dto.ContextKey = "influxdb data point"
	// measurementPrefix allows easier filtering in influxdb.
	measurementPrefix   = "registry_"
	MeasurementClients  = measurementPrefix + "clients"
	MeasurementProducts = measurementPrefix + "products"
	// PeriodicInterval is the interval in which monitored stores report their length.
	PeriodicInterval = time.Minute

	// The keys for the monitored tags and fields.
	influxKeyEntityID  = "entity_id"
	influxKeySessionID = "session_id"
)

var (
	log          = logging.GetLogger("monitoring")
	influxClient influxdb2API.WriteAPI
)

func InitializeInfluxDB(db *config.InfluxDB) (cancel func()) {
	if db.URL == "" {
		return func() {}
	}

	client := influxdb2.NewClient(db.URL, db.Token)
	influxClient = client.WriteAPI(db.Organization, db.Bucket)
	cancel = func() {
		influxClient.Flush()
		client.Close()
		influxClient = nil
	}
	return cancel
}

// InfluxDB2Middleware is a middleware to send events to an influx database.
func InfluxDB2Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := "unknown"
		if current := mux.CurrentRoute(r); current != nil && current.GetName() != "" {
			route = current.GetName()
		}
		p := influxdb2.NewPointWithMeasurement(measurementPrefix + route)

		start := time.Now().UTC()
		p.SetTime(time.Now())

		ctx := context.WithValue(r.Context(), influxdbContextKey, p)
		requestWithPoint := r.WithContext(ctx)
		recorder := logging.NewStatusRecorder(w)
		next.ServeHTTP(recorder, requestWithPoint)

		p.AddField("duration", time.Now().UTC().Sub(start).Nanoseconds())
		p.AddField("bytes", recorder.Written)
		p.AddTag("status", strconv.Itoa(recorder.StatusCode))

		WriteInfluxPoint(p)
	})
}

// AddEntityID adds the identifier of the requested entity to the influx data point for the current request.
func AddEntityID(r *http.Request, id string) {
	addInfluxDBTag(r, influxKeyEntityID, id)
}

// AddSessionID adds the id of the dialog session to the influx data point for the current request.
func AddSessionID(r *http.Request, id string) {
	addInfluxDBTag(r, influxKeySessionID, id)
}

// WriteInfluxPoint schedules the influx data point to be sent.
func WriteInfluxPoint(p *write.Point) {
	if influxClient != nil {
		p.AddTag("stage", config.Config.InfluxDB.Stage)
		influxClient.WritePoint(p)
	}
}

// addInfluxDBTag adds a tag to the influxdb data point in the request.
func addInfluxDBTag(r *http.Request, key, value string) {
	if p := dataPointFromRequest(r); p != nil {
		p.AddTag(key, value)
	}
}

// dataPointFromRequest returns the data point in the passed request.
func dataPointFromRequest(r *http.Request) *write.Point {
	p, ok := r.Context().Value(influxdbContextKey).(*write.Point)
	if !ok {
		log.Error("All http request must contain an influxdb data point!")
		return nil
	}
	return p
}
