// Package auth is the identity and session lifecycle engine behind the chat
// service. It owns account state transitions (unregistered, unconfirmed,
// confirmed), credential issuance and verification, social identity
// reconciliation, and the stateless sliding-session token that is rotated on
// every authenticated request.
//
// Persistence, mail delivery, and the social providers' wire protocols sit
// behind narrow contracts: AccountStore, mail.Sender, and social.Provider.
// The package ships default implementations for each (bun repository,
// Postmark sender, Google/Facebook/Microsoft providers) but the lifecycle
// manager only ever sees the contracts.
package auth
