// Package accounts provides account lifecycle primitives (versioned storage,
// freeze/restore/hard-delete transitions, token invalidation) plus HTTP glue
// for downstream profile workflows.
//
// Account lifecycle:
//   - Accounts carry frozen/restored timestamp pairs that are persisted via
//     Bun. Every transition is a single conditional update: the precondition
//     lives in the SQL filter, so concurrent actors cannot both win and a
//     zero-row match surfaces as ErrNotFoundOrConflict.
//   - LifecycleController centralizes authorization (admins may target other
//     accounts, regular users only themselves), post-commit object-storage
//     cleanup, and the logout flows.
//
// Token invalidation runs on two independent tracks:
//   - The credential epoch on the account rejects every token issued before
//     it. Freezing, changing a password, and logout-everywhere advance it.
//   - The RevocationLedger stores per-token markers keyed by jti for
//     single-session logout; markers expire with the token they revoke.
//
// Versioned storage:
//   - Store is a generic conditional-update repository. Every mutation bumps
//     the entity's version counter in the same statement as the patch, so
//     writers can detect lost updates without read-modify-write cycles.
package accounts
