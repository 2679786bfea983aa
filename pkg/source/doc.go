/*
Package source abstracts tracked-file enumeration behind an injectable
interface so the sync pipeline never queries a live working tree directly.

Backends register themselves by name: "git" reads the HEAD tree of a local
clone, "github" walks the git-trees API of a remote repository. Tests use
Static with fixture file sets.
*/
package source
