/*
Package queue defines the tasks performed to grow a tree as well as
an interface for a Queue to manage them.

It also provides an in-memory implementation of the Queue interface
that hands out the most recently pushed task first, so a single
worker pulling from it grows a tree depth-first.
*/
package queue
