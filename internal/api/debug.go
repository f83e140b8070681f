package api

import (
	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

// installDebugHooks logs every request and response at debug level.
// Headers are never written out, so the access token stays out of the logs.
func installDebugHooks(rest *resty.Client, log zerolog.Logger) {
	rest.OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL).
			Str("query", r.QueryParam.Encode()).
			Msg("HTTP request")
		return nil
	})

	rest.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		log.Debug().
			Str("method", resp.Request.Method).
			Str("path", requestPath(resp.Request)).
			Int("status_code", resp.StatusCode()).
			Int("bytes", len(resp.Body())).
			Dur("duration", resp.Time()).
			Msg("HTTP response")
		return nil
	})

	rest.OnError(func(r *resty.Request, err error) {
		log.Debug().Err(err).
			Str("method", r.Method).
			Str("path", requestPath(r)).
			Msg("HTTP request failed")
	})
}

// requestPath returns the URL path of r once resty has built the outgoing
// request, and the path as given before that.
func requestPath(r *resty.Request) string {
	if r.RawRequest != nil && r.RawRequest.URL != nil {
		return r.RawRequest.URL.Path
	}
	return r.URL
}

// restyLogger routes resty's own warnings through zerolog.
type restyLogger struct {
	log zerolog.Logger
}

func (l restyLogger) Errorf(format string, v ...interface{}) {
	l.log.Error().Msgf(format, v...)
}

func (l restyLogger) Warnf(format string, v ...interface{}) {
	l.log.Warn().Msgf(format, v...)
}

func (l restyLogger) Debugf(format string, v ...interface{}) {
	l.log.Debug().Msgf(format, v...)
}
