package obs

import (
	"time"

	"github.com/sirupsen/logrus"
)

// Time logs the duration of an operation when the returned func runs.
// Pass a pointer to the operation's error so failures are logged with it.
//
//	defer obs.Time(log, "solve")(&err)
func Time(log *logrus.Entry, name string) func(errp *error) {
	start := time.Now()

	return func(errp *error) {
		dur := time.Since(start)

		if errp != nil && *errp != nil {
			log.WithFields(logrus.Fields{"op": name, "dur_ms": dur.Milliseconds(), "err": *errp}).Warn("operation failed")
			return
		}
		log.WithFields(logrus.Fields{"op": name, "dur_ms": dur.Milliseconds()}).Info("operation done")
	}
}
