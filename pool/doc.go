// Package pool
// Author: momentics <momentics@gmail.com>
//
// Typed object pooling for node recycling.
// SyncPool doubles as the destruction target of epoch reclamation: nodes
// retired by lock-free structures come back here once no reader can hold them.
package pool
