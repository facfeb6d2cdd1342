package textnorm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	require.Equal(t, "bogota", Normalize("Bogotá"))
	require.Equal(t, "medellin", Normalize("MEDELLÍN"))
	require.Equal(t, "cucuta", Normalize("Cúcuta"))
	require.Equal(t, "nino", Normalize("Niño"))
}

func TestContains(t *testing.T) {
	names := []string{"Bogotá", "Bogota", "Cali"}
	var got []string
	for _, n := range names {
		if Contains("bogota", n) {
			got = append(got, n)
		}
	}
	require.Equal(t, []string{"Bogotá", "Bogota"}, got)

	require.True(t, Contains("BOGOTÁ", "bogota"))
	require.True(t, Contains("", "x"))
	require.True(t, Contains("050", "Medellín", "05001"))
	require.False(t, Contains("pasto", "Cali"))
}

func TestContainsFold(t *testing.T) {
	require.True(t, ContainsFold("ADMIN", "admin"))
	require.False(t, ContainsFold("bogota", "Bogotá"))
	require.True(t, ContainsFold("", "x"))
}
