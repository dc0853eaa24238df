// Package workpool implements the two flavors of background execution the
// scene pipeline needs: an OrderedWorker that runs tasks one at a time in
// FIFO order (used to serialize scene load/dispose), and a Pool of
// interchangeable workers drawing from a shared queue with no ordering
// guarantee (used for zip decode and tile payload decode).
package workpool
