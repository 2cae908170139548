package domain

import (
	"testing"

	"rnacolumns/testutil"
)

// The domain layer is shared by every package and must not reach into
// implementation packages.
func TestDomainDoesNotImportInternal(t *testing.T) {
	testutil.AssertNoDirectImports(t, ".", testutil.InternalImportForbidden, "domain must not depend on internal packages")
}
