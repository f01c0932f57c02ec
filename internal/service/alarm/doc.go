// Package alarm implements the theme alarm service: the in-memory theme
// collection backed by a repository, the scheduler rebuilt after every
// change, and the registry of open alert sessions.
//
// Every mutation follows the same sequence: change a copy of the collection,
// persist it, swap it in and rebuild the pending triggers. A failed save
// leaves both the collection and the triggers untouched.
package alarm
