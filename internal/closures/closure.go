// Package closures persists the institution's closed dates: bank holidays
// and ad-hoc closure periods such as the Christmas shutdown. The working
// day engine treats every stored date as a non-working day.
package closures

import "time"

type Closure struct {
	Date   time.Time `json:"date"`
	Reason string    `json:"reason"`
}
