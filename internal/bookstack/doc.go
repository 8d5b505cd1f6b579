// Package bookstack provides the write-side client for the target system.
//
// Only the two operations the export needs are implemented: finding or
// creating the destination book (the target collection) and creating pages
// inside it. Requests carry the token-style credential header on every call.
package bookstack
