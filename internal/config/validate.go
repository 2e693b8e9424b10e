package config

import (
	"fmt"
)

// Validate performs business-rule validation on the loaded
// configuration. Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}
	if c.Auth.AccessTokenTTL <= 0 {
		return fmt.Errorf("auth.access_token_ttl must be positive (got %v)", c.Auth.AccessTokenTTL)
	}

	if c.Catalog.MaxScreenshots < 1 {
		return fmt.Errorf("catalog.max_screenshots must be >= 1 (got %d)", c.Catalog.MaxScreenshots)
	}
	if c.Catalog.MaxExamples < 1 {
		return fmt.Errorf("catalog.max_examples must be >= 1 (got %d)", c.Catalog.MaxExamples)
	}
	if c.Catalog.MaxTagLength < 1 {
		return fmt.Errorf("catalog.max_tag_length must be >= 1 (got %d)", c.Catalog.MaxTagLength)
	}

	if c.Cache.ApprovedToolsTTL <= 0 {
		return fmt.Errorf("cache.approved_tools_ttl must be positive (got %v)", c.Cache.ApprovedToolsTTL)
	}
	if c.Cache.CategoriesTTL <= 0 {
		return fmt.Errorf("cache.categories_ttl must be positive (got %v)", c.Cache.CategoriesTTL)
	}
	if c.Cache.TagsTTL <= 0 {
		return fmt.Errorf("cache.tags_ttl must be positive (got %v)", c.Cache.TagsTTL)
	}

	return nil
}
