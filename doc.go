// Package schedprof is a discrete-event simulator for a cooperative,
// coroutine-based scheduler running on a multi-CPU machine.
//
// A simulated program is a tree of Coroutine values, each a lazy sequence
// of Instruction values (CPU bursts, I/O waits, mutex lock/unlock, spawn,
// terminate). A Scheduler drives a simulated clock forward, asking a
// pluggable Policy to map idle CPUs to ready coroutines at each tick, and
// accumulates the statistics returned by RunProgram: elapsed wall-clock
// time, total and burning CPU time, context-switch count, and cache hits.
//
// The simulator performs no real I/O and no real concurrency: "parallel"
// CPUs are simulated time slots, and the only goroutines schedprof itself
// creates are the single-step generators backing each Coroutine's
// instruction stream (see Coroutine), synchronized so that the simulation
// remains deterministic.
package schedprof
