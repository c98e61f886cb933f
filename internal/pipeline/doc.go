// Package pipeline drives disk identification as a resumable nine-step state
// machine. Each step writes its effects into the persisted disk record before
// the next step runs, so an interrupted run picks up where it stopped and
// produces the same record an uninterrupted run would have.
package pipeline
