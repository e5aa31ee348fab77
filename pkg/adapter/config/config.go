// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package config loads the dealership web project configuration
// settings from a YAML file. It knows how to instantiate the main
// third-party dependent objects, such as the database connection pool
// and the gin-gonic engine, based on those settings, keeping the use
// cases layer decoupled from their details.
package config

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/momeni/dealership/pkg/adapter/db/postgres"
	"github.com/momeni/dealership/pkg/core/repo"
	"github.com/momeni/dealership/pkg/core/usecase/carsuc"
	"gopkg.in/yaml.v3"
)

// Config contains all settings which are required by different parts
// of the project, such as adapters or use cases. It is preferred to
// implement Config with primitive fields or other structs which are
// defined locally, not models or structs which are defined in lower
// layers, so other layers can change freely without affecting the
// configuration file format.
type Config struct {
	Database Database // PostgreSQL database connection settings
	Gin      Gin      // Gin-Gonic instantiation settings
	Client   Client   // record service client settings
	Usecases Usecases // supported use cases configuration settings
}

// Load reads the YAML configuration file from the given path,
// unmarshals it into a Config instance, and validates and normalizes
// the loaded settings. Extra items in the file are ignored and missing
// items take their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	c := &Config{}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("unmarshalling yaml: %w", err)
	}
	if err := c.ValidateAndNormalize(); err != nil {
		return nil, fmt.Errorf("validating configs: %w", err)
	}
	return c, nil
}

// ValidateAndNormalize validates the configuration settings and
// returns an error if they were not acceptable. It can also modify
// settings in order to normalize them or replace some zero values with
// their expected default values (if any).
func (c *Config) ValidateAndNormalize() error {
	nil2True(&c.Gin.Logger)
	nil2True(&c.Gin.Recovery)
	nil2True(&c.Gin.Cors)
	if err := c.Database.ValidateAndNormalize(); err != nil {
		return fmt.Errorf("validating database settings: %w", err)
	}
	return nil
}

// ConnectionPool creates a database connection pool using the
// connection information which are kept in the `c` settings.
func (c *Config) ConnectionPool(
	ctx context.Context, r repo.Role,
) (repo.Pool, error) {
	p, err := c.Database.ConnectionPool(ctx, r)
	if err != nil {
		return nil, fmt.Errorf(
			"%#v.ConnectionPool: %w", c.Database, err,
		)
	}
	return p, nil
}

// NewCarsUseCase instantiates a new cars use case based on the
// settings in the c struct.
func (c *Config) NewCarsUseCase(
	p repo.Pool, carsRepo repo.Cars, imagesRepo repo.Images,
) (*carsuc.UseCase, error) {
	return c.Usecases.Cars.NewUseCase(p, carsRepo, imagesRepo)
}

// Database contains the PostgreSQL connection settings. Passwords are
// not kept in the configuration file itself, but in a .pgpass file
// with `host:port:dbname:role:password` lines, so the configuration
// file may be shared without exposing credentials.
type Database struct {
	Host    string // domain name or IP address of the DBMS server
	Port    int    // port number of the DBMS server
	Name    string // database name, like dealership
	PassDir string `yaml:"pass-dir"` // path of the passwords dir
}

// ValidateAndNormalize checks the database connection settings and
// fills the default port number if it is left unspecified.
func (d *Database) ValidateAndNormalize() error {
	if d.Host == "" {
		return fmt.Errorf("host must be specified")
	}
	if d.Port == 0 {
		d.Port = 5432
	}
	if d.Name == "" {
		return fmt.Errorf("database name must be specified")
	}
	return nil
}

// ConnectionPool creates a database connection pool using the
// connection information which are kept in the `d` settings.
// The password of the given `r` role is read from the .pgpass file
// in the d.PassDir folder which should conform with the pgpass
// format with lines like this:
//
//	host:port:dbname:role:password
func (d Database) ConnectionPool(
	ctx context.Context, r repo.Role,
) (repo.Pool, error) {
	path := filepath.Join(d.PassDir, ".pgpass")
	u, err := d.ConnectionURL(r, path)
	if err != nil {
		return nil, fmt.Errorf("using %q pass-file: %w", path, err)
	}
	p, err := postgres.NewPool(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("postgres.NewPool: %w", err)
	}
	return p, nil
}

// ConnectionURL returns the database connection URL embedding the
// host, port, role name, database name, and password value. These
// items are directly taken from the `d` settings, but the role name
// which is specified by the `r` argument and the password value which
// is read from the given `path` file. Returned URL has the postgresql
// scheme. The `path` file may contain empty or `#`-commented lines in
// addition to the password specifying lines which should conform with
// the pgpass format.
func (d Database) ConnectionURL(
	r repo.Role, path string,
) (string, error) {
	passLines, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading pass-file: %w", err)
	}
	prfx := fmt.Sprintf("%s:%d:%s:%s:", d.Host, d.Port, d.Name, r)
	var pass string
	for _, line := range strings.Split(string(passLines), "\n") {
		if line == "" || line[0] == '#' {
			continue
		}
		if strings.HasPrefix(line, prfx) {
			pass = line[len(prfx):]
			break
		}
	}
	if pass == "" {
		return "", fmt.Errorf("no password found for %q role", r)
	}
	u := &url.URL{
		Scheme: "postgresql",
		User:   url.UserPassword(string(r), pass),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.Name,
	}
	return u.String(), nil
}

// Gin contains the gin-gonic engine instantiation settings.
type Gin struct {
	Logger   *bool // Whether to register the gin.Logger() middleware
	Recovery *bool // Whether to register the gin.Recovery() middleware
	Cors     *bool // Whether to permit cross-origin requests
}

// NewEngine instantiates a new gin-gonic engine instance based on
// the `g` settings. Cross-origin requests are permitted by default
// since browser front-ends are served from another origin.
func (g Gin) NewEngine() *gin.Engine {
	middlewares := make([]gin.HandlerFunc, 0, 3)
	if *g.Logger {
		middlewares = append(middlewares, gin.Logger())
	}
	if *g.Recovery {
		middlewares = append(middlewares, gin.Recovery())
	}
	if *g.Cors {
		middlewares = append(middlewares, cors.Default())
	}
	e := gin.New()
	e.Use(middlewares...)
	return e
}

// Client contains the settings of the record service client, used
// when this program acts as an inventory management frontend for a
// remotely deployed record service instance.
type Client struct {
	// BaseURL is the record service API base URL, like
	// http://localhost:8080/api/dlweb/v1
	BaseURL string `yaml:"base-url"`
}

// Usecases contains the configuration settings for all use cases.
type Usecases struct {
	Cars Cars // cars use cases related settings
}

// Cars contains the configuration settings for the cars use cases.
// Fields are defined as pointers, so it is possible to detect if they
// are or are not initialized and pass their corresponding functional
// options to the use case only when they are configured explicitly.
type Cars struct {
	// MaxPictureBytes bounds the size of an uploaded car picture.
	MaxPictureBytes *int64 `yaml:"max-picture-bytes"`
}

// NewUseCase instantiates a new cars use case based on the settings
// in the c struct.
func (c Cars) NewUseCase(
	p repo.Pool, carsRepo repo.Cars, imagesRepo repo.Images,
) (*carsuc.UseCase, error) {
	opts := make([]carsuc.Option, 0, 1)
	if c.MaxPictureBytes != nil {
		opts = append(
			opts, carsuc.WithMaxPictureBytes(*c.MaxPictureBytes),
		)
	}
	return carsuc.New(p, carsRepo, imagesRepo, opts...)
}

func nil2True(b **bool) {
	if *b == nil {
		t := true
		*b = &t
	}
}
