package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/trolley-api/pkg/jwt"
)

func TestGenerateAndParse(t *testing.T) {
	token, err := jwt.Generate("secreto", "emp-1", "Ana", "operator", "trolley-api", 5)
	require.NoError(t, err)

	claims, err := jwt.Parse("secreto", token)
	require.NoError(t, err)
	assert.Equal(t, "emp-1", claims.EmployeeID)
	assert.Equal(t, "Ana", claims.EmployeeName)
	assert.Equal(t, "trolley-api", claims.Issuer)
}

func TestParse_WrongSecret(t *testing.T) {
	token, err := jwt.Generate("secreto", "emp-1", "", "", "trolley-api", 5)
	require.NoError(t, err)

	_, err = jwt.Parse("otro", token)
	assert.Error(t, err)
}

func TestParse_Expired(t *testing.T) {
	token, err := jwt.Generate("secreto", "emp-1", "", "", "trolley-api", -1)
	require.NoError(t, err)

	_, err = jwt.Parse("secreto", token)
	assert.Error(t, err)
}

func TestGenerate_RequiresEmployee(t *testing.T) {
	_, err := jwt.Generate("secreto", "", "", "", "trolley-api", 5)
	assert.Error(t, err)
}
