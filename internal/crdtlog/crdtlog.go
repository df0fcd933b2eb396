// Package crdtlog provides a small prefixed logger for CRDT lifecycle
// events, one method per event kind — the same shape as the teacher's
// DroneLogger, with sensor/gossip events swapped for update/merge/
// precondition/decode events.
package crdtlog

import (
	"fmt"
	"log"
	"os"
	"time"
)

// Logger writes one line per CRDT lifecycle event, prefixed by a
// caller-supplied replica/actor tag.
type Logger struct {
	actor  string
	logger *log.Logger
}

// New returns a Logger prefixed with actor's identity.
func New(actor string) *Logger {
	return &Logger{
		actor:  actor,
		logger: log.New(os.Stdout, fmt.Sprintf("[%s] ", actor), log.LstdFlags|log.Lmicroseconds),
	}
}

// LogUpdate records a successful local update against kind (orswot,
// odflag, map) naming the target.
func (l *Logger) LogUpdate(kind, target string, opCount int) {
	l.logger.Printf("UPDATE: kind=%s target=%s ops=%d at=%d",
		kind, target, opCount, time.Now().UnixMilli())
}

// LogMerge records a merge of a remote replica's state into ours.
func (l *Logger) LogMerge(kind, target string) {
	l.logger.Printf("MERGE: kind=%s target=%s at=%d", kind, target, time.Now().UnixMilli())
}

// LogPrecondition records a precondition failure (e.g. remove of an
// absent element).
func (l *Logger) LogPrecondition(kind, target string, err error) {
	l.logger.Printf("PRECONDITION_FAILED: kind=%s target=%s error=%s at=%d",
		kind, target, err, time.Now().UnixMilli())
}

// LogDecode records a successful from_binary decode.
func (l *Logger) LogDecode(kind string, byteLen int, compressed bool) {
	l.logger.Printf("DECODE: kind=%s bytes=%d compressed=%t at=%d",
		kind, byteLen, compressed, time.Now().UnixMilli())
}

// LogEncode records a successful to_binary encode.
func (l *Logger) LogEncode(kind string, byteLen int, compressed bool) {
	l.logger.Printf("ENCODE: kind=%s bytes=%d compressed=%t at=%d",
		kind, byteLen, compressed, time.Now().UnixMilli())
}

// LogError records an operational error not covered by a more specific
// Log method above.
func (l *Logger) LogError(operation string, err error) {
	l.logger.Printf("ERROR: operation=%s error=%s at=%d", operation, err, time.Now().UnixMilli())
}
