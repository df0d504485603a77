// File: internal/concurrency/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Busy-wait helpers shared by the queue locks and lock-free retry loops.
package concurrency
