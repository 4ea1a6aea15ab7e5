package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Register adds the bot's collectors to reg. Collectors reg already holds
// are skipped, so calling it again is harmless.
func Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{commandsTotal, authAttemptsTotal, fetchTotal, fetchDuration} {
		if err := reg.Register(c); err != nil {
			var already prometheus.AlreadyRegisteredError
			if errors.As(err, &already) {
				continue
			}
			return err
		}
	}
	return nil
}
