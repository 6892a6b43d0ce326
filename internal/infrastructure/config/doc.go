// Package config handles loading and validating the BotVac bridge configuration.
//
// This package manages:
//   - Loading configuration from YAML files
//   - Overriding with environment variables (GRAYLOGIC_SECTION_KEY)
//   - Validation of required fields and the robot seed list
//
// Security Considerations:
//   - Robot secrets, broker passwords and tokens should be set via environment
//     variables or a config file with restricted permissions (0600)
//   - An empty security.jwt.secret leaves the API unauthenticated
//
// Usage:
//
//	cfg, err := config.Load("configs/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Nucleo.BaseURL)
package config
