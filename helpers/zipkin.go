package helpers

import (
	"log"
	"net/http"

	"github.com/openzipkin/zipkin-go"
	zipkinhttp "github.com/openzipkin/zipkin-go/middleware/http"
	httpreporter "github.com/openzipkin/zipkin-go/reporter/http"
)

// InitTracer creates a zipkin server middleware reporting to address.
// The returned function flushes and closes the reporter
func InitTracer(address, port string) (func(http.Handler) http.Handler, func()) {
	// set up a span reporter
	reporter := httpreporter.NewReporter("http://" + address + "/api/v2/spans")
	closer := func() {
		_ = reporter.Close()
	}

	// create our local service endpoint
	endpoint, err := zipkin.NewEndpoint("nido", "localhost:"+port)
	if err != nil {
		log.Printf("unable to create local endpoint: %+v\n", err)
		return nil, closer
	}

	// initialize our tracer
	tracer, err := zipkin.NewTracer(reporter, zipkin.WithLocalEndpoint(endpoint))
	if err != nil {
		log.Printf("unable to create tracer: %+v\n", err)
		return nil, closer
	}

	return zipkinhttp.NewServerMiddleware(tracer, zipkinhttp.TagResponseSize(true)), closer
}
