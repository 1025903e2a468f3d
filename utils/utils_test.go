package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIntEnvVar(t *testing.T) {
	t.Setenv("GREEN_ERP_TEST_PORT", "9001")

	assert.Equal(t, 9001, IntEnvVar("GREEN_ERP_TEST_PORT", 8000))
	assert.Equal(t, 8000, IntEnvVar("GREEN_ERP_TEST_PORT_UNSET", 8000))
}

func TestOptionalEnv(t *testing.T) {
	t.Setenv("GREEN_ERP_TEST_OPTIONAL", "value")

	assert.Equal(t, "value", OptionalEnv("GREEN_ERP_TEST_OPTIONAL"))
	assert.Equal(t, "", OptionalEnv("GREEN_ERP_TEST_OPTIONAL_UNSET"))
}
