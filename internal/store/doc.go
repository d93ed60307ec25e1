// Package store defines the persistence contracts for the banking entities
// and the transaction helper every service operation runs inside. The
// interfaces are narrow by design: the service layer composes them, the
// postgres package implements them, and WithTx rebinds an implementation to
// an open transaction.
package store
