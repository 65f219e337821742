// See chime.go for Schedule and its constructors At/AtContext, queue.go for
// the mutable-mode time queue, clock.go for the Clock abstraction tests
// substitute, and channel.go for the Chan adapter.
package chime
