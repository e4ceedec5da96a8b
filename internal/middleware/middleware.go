package middleware

import (
	"context"
	"crypto/subtle"
	"net"
	"net/http"
	"strings"

	"github.com/akolanti/CSVAgent/internal/adapter/utils"
	"github.com/akolanti/CSVAgent/internal/api"
	"github.com/akolanti/CSVAgent/internal/config"
	"github.com/akolanti/CSVAgent/internal/domain/sessionModel"
	"github.com/akolanti/CSVAgent/internal/handlers"
	"github.com/akolanti/CSVAgent/pkg/logger_i"
)

func injectTrace(re requestResponseStruct) requestResponseStruct {
	req := re.req
	trace := req.Header.Get("X-Trace-Id")
	if trace == "" {
		trace = utils.GetNewUUID()
	}
	re.logger = re.logger.With("traceId", trace)
	ctx := context.WithValue(req.Context(), config.TRACE_ID_KEY, trace)
	re.writer.Header().Set("X-Trace-Id", trace)
	re.req = req.WithContext(ctx)
	return re
}

func (c *Chain) authenticate(re requestResponseStruct) requestResponseStruct {
	if c.opts.AuthToken == "" {
		return re
	}
	if !IsValidBearerToken(re.req.Header.Get("Authorization"), c.opts.AuthToken, re.logger) {
		re.badRequest = failureStruct{
			isBadRequest: true,
			httpCode:     http.StatusUnauthorized,
			errorMessage: "Unauthorized",
		}
		return re
	}
	re.logger.Debug("Authorized")
	return re
}

func IsValidBearerToken(authHeader string, token string, log *logger_i.Logger) bool {
	if authHeader == "" {
		log.Warn("Empty authorization header")
		return false
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		log.Warn("No Bearer header")
		return false
	}
	if subtle.ConstantTimeCompare([]byte(strings.TrimPrefix(authHeader, "Bearer ")), []byte(token)) != 1 {
		log.Warn("Invalid authorization header")
		return false
	}
	return true
}

func (c *Chain) rateLimiter(re requestResponseStruct) requestResponseStruct {
	ip, _, err := net.SplitHostPort(re.req.RemoteAddr)
	if err != nil {
		ip = re.req.RemoteAddr
	}

	if !c.limiter.GetLimiter(ip).Allow() {
		re.logger.Warn("Too many requests", "ip", ip)
		re.badRequest = failureStruct{
			isBadRequest: true,
			httpCode:     http.StatusTooManyRequests,
			errorMessage: "Rate limit exceeded, slow down",
		}
	}
	return re
}

// resolveSession takes the session id from the header or cookie. Anything that is not a
// uuid we issued is replaced by a fresh session.
func (c *Chain) resolveSession(re requestResponseStruct) (requestResponseStruct, sessionModel.SessionState) {
	id := re.req.Header.Get(config.SessionHeaderName)
	if id == "" {
		if cookie, err := re.req.Cookie(config.SessionCookieName); err == nil {
			id = cookie.Value
		}
	}
	if !utils.IsUUID(id) {
		id = utils.GetNewUUID()
		re.logger.Debug("New session issued", "sessionId", id)
	}

	http.SetCookie(re.writer, &http.Cookie{
		Name:     config.SessionCookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(config.SessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   c.opts.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	re.writer.Header().Set(config.SessionHeaderName, id)

	ctx := context.WithValue(re.req.Context(), config.SESSION_ID_KEY, id)
	re.req = re.req.WithContext(ctx)
	return re, c.sessions.Session(ctx, id)
}

// handleBadRequest writes the failure, if any, and reports whether the request may go on.
func handleBadRequest(re requestResponseStruct) bool {
	if !re.badRequest.isBadRequest {
		return true
	}
	re.logger.Warn("Bad request", "httpCode", re.badRequest.httpCode, "errorMessage", re.badRequest.errorMessage, "IP", re.req.RemoteAddr)
	if re.isPage {
		http.Error(re.writer, re.badRequest.errorMessage, re.badRequest.httpCode)
		return false
	}
	handlers.WriteErrorResponse(re.writer, re.badRequest.httpCode, "", re.badRequest.errorMessage, api.ErrorKindValidation)
	return false
}
