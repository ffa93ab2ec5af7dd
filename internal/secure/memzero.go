package secure

import "crypto/subtle"

// Zero overwrites b with zeros. Best-effort: it shrinks the window in which
// key material sits in memory but cannot defeat copies made by the runtime.
func Zero(b []byte) {
	if len(b) == 0 {
		return
	}
	zero := make([]byte, len(b))
	subtle.ConstantTimeCopy(1, b, zero)
}
