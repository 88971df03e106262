package server

import (
	"sync"

	"github.com/ironsheep/chroma-analyzer/internal/stats"
)

// progressStep is the minimum advance between two progress notifications.
const progressStep = 0.01

// progressNotifier returns an observer that forwards statistics progress as
// notifications/progress messages for token. Checkpoints fire once per row,
// so updates closer together than progressStep are dropped; completion is
// always sent.
func (s *Server) progressNotifier(token interface{}) stats.Observer {
	var (
		mu   sync.Mutex
		last = -1.0
	)
	return stats.ObserverFunc(func(fraction float64) {
		mu.Lock()
		if fraction < 1 && fraction-last < progressStep {
			mu.Unlock()
			return
		}
		last = fraction
		mu.Unlock()

		s.write(&MCPNotification{
			JSONRPC: "2.0",
			Method:  "notifications/progress",
			Params: map[string]interface{}{
				"progressToken": token,
				"progress":      fraction,
				"total":         1.0,
			},
		})
	})
}
