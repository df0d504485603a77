// File: epoch/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Package epoch implements epoch-based deferred destruction for lock-free
// structures.
//
// A goroutine pins a Guard before loading shared node pointers and unpins it
// afterwards. Nodes unlinked while pinned are handed to Guard.Retire (or an
// arbitrary closure to Guard.Defer); they are destroyed once the global epoch
// has moved two steps past the retirement stamp, which can only happen after
// every goroutine pinned at retirement time has unpinned or repinned.
//
// Typical use:
//
//	g := epoch.Default().Pin()
//	defer g.Unpin()
//	for {
//		head := s.head.Load()
//		...
//		if s.head.CompareAndSwap(head, next) {
//			g.Retire(head, nodes)
//			return
//		}
//		g.Repin()
//	}
//
// Guards are cheap and independent: nested Pin calls claim separate
// participant records. A goroutine must not hold a guard indefinitely, and
// every unbounded retry loop must Repin so reclamation keeps advancing.
package epoch
