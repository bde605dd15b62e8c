package util

import (
	"fmt"
	"math"
	"time"
)

// OfflineMinutes is floor((now - logout) / 60s) for a unix-seconds logout time.
func OfflineMinutes(now time.Time, lastLogout int64) int64 {
	elapsed := float64(now.Unix() - lastLogout)
	return int64(math.Floor(elapsed / 60))
}

func OfflineSince(now time.Time, lastLogout int64) string {
	return fmt.Sprintf("offline (%d mins)", OfflineMinutes(now, lastLogout))
}
