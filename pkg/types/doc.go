// Package types defines the Phonebook and ContactsTable interfaces, the
// Contact entity, stored-procedure records, and the standard error values
// shared by the storage backend and both front-ends.
package types
