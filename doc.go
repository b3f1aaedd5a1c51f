// Package hwid reads and rewrites the Windows hardware-identification
// artifacts: machine GUID, product ID, CPU/disk/motherboard serials and the
// primary MAC address. It combines them into a composite SHA-256 fingerprint
// and can override the GUID, the product ID and an adapter's MAC address.
//
// All OS access goes through a Gateway:
//
//	g := hwid.New()
//	set := g.CollectAll(ctx)
//	fmt.Println(set.Fingerprint)
//
// Writes, backup and restore require an elevated process and fail with
// ErrPermissionDenied otherwise, before any OS call is made.
package hwid
