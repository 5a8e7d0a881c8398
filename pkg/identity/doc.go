// Package identity implements the object-identity and controlled-mutability
// contract shared by every cosmocore value type: representation-based equality
// and hashing with lazily cached fingerprints, per-instance lock state with a
// scoped unlock protocol safe under nested and concurrent use, and a
// process-wide registry that can swap every registered type between its custom
// representation and an identity-based default.
//
// Managed types embed Base and register a TypeSpec once, when the type is
// introduced:
//
//	type Point struct {
//		identity.Base
//		A, B float64
//	}
//
//	func init() {
//		identity.MustRegister(&Point{}, identity.TypeSpec{
//			ReprAttrs: []string{"A", "B"},
//			Params:    []string{"a", "b"},
//		})
//	}
//
// Instances are immutable once constructed. Changes are routed through a
// registered update entry point or an explicit unlock scope; a field write
// outside an active scope fails with ErrLockedMutation.
package identity
