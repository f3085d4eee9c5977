package throttle

import (
	"net/http"
	"strconv"
	"time"

	"github.com/zeptools/fichas/requests"
	"github.com/zeptools/fichas/responses"
	"github.com/zeptools/fichas/routing"
	"go.uber.org/zap"
)

const TooManyRequestsMsg = "Muitas solicitações. Tente novamente em instantes."

// PerIPWrapper limits requests per client IP with the buckets of groupID.
// The IP is the connection peer; proxy headers count only when behindProxy is set.
func PerIPWrapper(store *BucketStore[string], groupID string, behindProxy bool) routing.HandlerWrapper {
	clientIP := requests.RemoteIP
	if behindProxy {
		clientIP = requests.GetClientIP
	}
	return routing.HandlerWrapperFunc(func(inner http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			if !store.Allow(groupID, ip, time.Now()) {
				store.logger.Info("request throttled", zap.String("group", groupID), zap.String("ip", ip))
				if g, ok := store.GetBucketGroup(groupID); ok && g.conf.Period > 0 {
					w.Header().Set("Retry-After", strconv.Itoa(max(1, int(g.conf.Period.Seconds()))))
				}
				responses.WriteSimpleErrorJSON(w, http.StatusTooManyRequests, TooManyRequestsMsg)
				return
			}
			inner.ServeHTTP(w, r)
		})
	})
}
