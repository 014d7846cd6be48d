// Package domain defines the raw build document shared by every part of ed-forge.
//
// A build is the player's configuration of one ship hull: the modules placed in
// its slots and any engineering applied to them. This package only describes
// the shape of that document. The rules that guard it live in the loadout
// package.
//
// # Core Types
//
// ShipObject is the top-level record: hull type, name, ident and the module
// records in document order.
//
// ModuleObject describes one slot entry: the slot it occupies, the item fitted,
// whether it is powered, its power priority and an optional Blueprint.
//
// Blueprint and Modifier carry engineering. Each Modifier overrides one base
// stat by label.
//
// # Unknown Members
//
// Build documents come from several sources (compact codes, files, the game
// journal) and routinely carry members this package does not model. Every
// record, Blueprint and Modifier included, keeps them in an Extra map and
// writes them back unchanged. Numbers in Extra are json.Number, so journal
// ids beyond 2^53 survive. Optional members (ShipName, ShipIdent, Engineer,
// ExperimentalEffect) are written back only when the document had them or
// they were set.
//
// # Protected Members
//
// ModuleVars and ShipVars enumerate the members that only dedicated setters
// may change. ModuleVarIsSpecified and ShipVarIsSpecified are the predicates
// the generic accessors check.
package domain
