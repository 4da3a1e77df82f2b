// Package secrets persists sealed key ring records: the per-file cipher
// secrets of uploaded files, encrypted under the key ring passphrase.
//
// # Overview
//
// Repository is implemented twice:
//
//   - SQLiteRepository over dbx.DBTX (either *sql.DB or *sql.Tx), using the
//     keyring table created by the client migrations.
//   - BoltRepository over a bbolt bucket, optionally bound to a transaction.
//
// Records are opaque to this package. Get and Delete report a missing file
// id with common.ErrNotFound; Put overwrites an existing record.
//
// Typical Usage
//
//	repo := secrets.NewSQLiteRepository(db)
//	_ = repo.Put(ctx, &models.KeyRingRecord{FileID: id, Ciphertext: ct, Nonce: n})
//	rec, _ := repo.Get(ctx, id)
//	ids, _ := repo.List(ctx)
package secrets
