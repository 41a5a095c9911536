// Package kernel provides the identifier value object shared by every
// aggregate of the ordering platform.
//
// ID is a prefixed UUID ("ord_…", "evt_…", "usr_…", "cv_…"). The prefix makes
// identifiers self-describing in logs and lets constructors reject an
// identifier of the wrong kind. IDs are immutable and safe for concurrent use.
package kernel
