package registry

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMapGenericAccessExpandsAndClearsGenericAndViewBits(t *testing.T) {
	mapped := MapGenericAccess(GenericRead | Wow6432Key)
	require.Equal(t, KeyRead, mapped)

	mapped = MapGenericAccess(GenericAll)
	require.Equal(t, KeyAllAccess, mapped)
}

func TestMapGenericAccessPreservesUnrelatedBits(t *testing.T) {
	mapped := MapGenericAccess(KeySetValue)
	require.Equal(t, KeySetValue, mapped)
}

func TestWantsWow64View(t *testing.T) {
	require.True(t, WantsWow64View(0, true, true))
	require.False(t, WantsWow64View(0, false, true))
	require.False(t, WantsWow64View(0, true, false))
	require.True(t, WantsWow64View(Wow6432Key, false, false))
	require.False(t, WantsWow64View(Wow6464Key, true, true))
}
