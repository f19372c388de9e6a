// Package requestid provides HTTP middleware and helpers for request
// correlation identifiers.
//
// Middleware attaches an ID to every request: a valid client-supplied
// X-Request-ID header is reused, anything else is replaced with a fresh
// UUID. The ID is stored in the request context, echoed back in the response
// header, and LoggerExtractor injects it into structured log records.
//
//	log := logger.New(
//	    logger.WithProduction("postkit"),
//	    logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//
//	handler := requestid.Middleware(generation.Router(opts))
package requestid
