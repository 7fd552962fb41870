package db

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(gorm.ErrRecordNotFound))
	assert.False(t, IsNotFound(errors.New("connection refused")))
	assert.False(t, IsNotFound(nil))
}

func TestIsUniqueViolation(t *testing.T) {
	pgErr := errors.New(`ERROR: duplicate key value violates unique constraint "shops_shop_domain_key" (SQLSTATE 23505)`)
	sqliteErr := errors.New("UNIQUE constraint failed: shops.shop_domain")

	assert.True(t, IsUniqueViolation(pgErr, ""))
	assert.True(t, IsUniqueViolation(sqliteErr, ""))
	assert.True(t, IsUniqueViolation(pgErr, "shops_shop_domain_key"))
	assert.False(t, IsUniqueViolation(pgErr, "generated_contents_pkey"))
	assert.False(t, IsUniqueViolation(errors.New("connection refused"), ""))
	assert.False(t, IsUniqueViolation(nil, ""))
}
