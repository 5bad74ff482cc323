// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"rivaas.dev/mappings/codec"
	"rivaas.dev/mappings/source"
)

// Source kinds.
const (
	SourceFile   = "file"
	SourceConsul = "consul"
	SourceHTTP   = "http"
)

// ErrSourceIncomplete is returned by [SourceSettings.Open] when the settings
// for the selected kind are missing a required value.
var ErrSourceIncomplete = errors.New("source settings incomplete")

// Settings holds everything the CLI and the inspection server read.
type Settings struct {
	Source SourceSettings `config:"source"`
	Server ServerSettings `config:"server"`
	Log    LogSettings    `config:"log"`
	Render RenderSettings `config:"render"`
}

// SourceSettings selects where the descriptor tree is loaded from.
type SourceSettings struct {
	Kind   string         `config:"kind" default:"file" validate:"oneof=file consul http"`
	Path   string         `config:"path"`
	Format string         `config:"format" validate:"omitempty,oneof=json yaml toml msgpack"`
	Consul ConsulSettings `config:"consul"`
	HTTP   HTTPSettings   `config:"http"`
}

// ConsulSettings configures the Consul KV source.
type ConsulSettings struct {
	Address  string `config:"address" validate:"omitempty,hostname_port|url"`
	Key      string `config:"key"`
	ACLToken string `config:"acl_token"`
}

// HTTPSettings configures the actuator endpoint source.
type HTTPSettings struct {
	URL     string        `config:"url" validate:"omitempty,http_url"`
	Timeout time.Duration `config:"timeout" default:"10s" validate:"gte=0"`
}

// ServerSettings configures the inspection API.
type ServerSettings struct {
	Addr           string `config:"addr" default:":8080" validate:"required"`
	ProblemBaseURL string `config:"problem_base_url" validate:"omitempty,url"`
}

// LogSettings configures the logger.
type LogSettings struct {
	Level  string `config:"level" default:"info" validate:"oneof=debug info warn error"`
	Format string `config:"format" default:"console" validate:"oneof=json text console"`
}

// RenderSettings configures table output. Width 0 means the terminal width.
type RenderSettings struct {
	Width int `config:"width" validate:"gte=0"`
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			return f.Tag.Get(tagName)
		})
	})
	return validate
}

// Validate checks the struct tag constraints. Each violation is reported as
// an *Error naming the dotted settings key.
func (s *Settings) Validate() error {
	err := structValidator().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return NewError("settings", "validate", err)
	}

	errs := make([]error, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		field := fe.Namespace()
		if _, rest, ok := strings.Cut(field, "."); ok {
			field = rest
		}
		errs = append(errs, NewFieldError("settings", field, "validate",
			fmt.Errorf("value %v fails %q", fe.Value(), fieldRule(fe))))
	}
	return errors.Join(errs...)
}

func fieldRule(fe validator.FieldError) string {
	if fe.Param() == "" {
		return fe.Tag()
	}
	return fe.Tag() + "=" + fe.Param()
}

// Open builds the descriptor source the settings describe.
func (s SourceSettings) Open() (source.Source, error) {
	switch s.Kind {
	case SourceFile, "":
		if s.Path == "" {
			return nil, NewFieldError("settings", "source.path", "open", ErrSourceIncomplete)
		}
		t := codec.Type(s.Format)
		if t == "" {
			var err error
			if t, err = codec.ForPath(s.Path); err != nil {
				return nil, NewFieldError("settings", "source.format", "open", err)
			}
		}
		src, err := source.FileAs(s.Path, t)
		if err != nil {
			return nil, NewFieldError("settings", "source.format", "open", err)
		}
		return src, nil

	case SourceConsul:
		if s.Consul.Key == "" {
			return nil, NewFieldError("settings", "source.consul.key", "open", ErrSourceIncomplete)
		}
		dec, err := codec.GetDecoder(codec.Type(s.formatOr(codec.TypeJSON)))
		if err != nil {
			return nil, NewFieldError("settings", "source.format", "open", err)
		}
		var opts []source.ConsulOption
		if s.Consul.Address != "" {
			opts = append(opts, source.WithConsulAddress(s.Consul.Address))
		}
		if s.Consul.ACLToken != "" {
			opts = append(opts, source.WithConsulToken(s.Consul.ACLToken))
		}
		src, err := source.Consul(s.Consul.Key, dec, nil, opts...)
		if err != nil {
			return nil, NewFieldError("settings", "source.consul", "open", err)
		}
		return src, nil

	case SourceHTTP:
		if s.HTTP.URL == "" {
			return nil, NewFieldError("settings", "source.http.url", "open", ErrSourceIncomplete)
		}
		var opts []source.HTTPOption
		if s.HTTP.Timeout > 0 {
			opts = append(opts, source.WithHTTPTimeout(s.HTTP.Timeout))
		}
		return source.HTTP(s.HTTP.URL, opts...), nil
	}
	return nil, NewFieldError("settings", "source.kind", "open", fmt.Errorf("unknown kind %q", s.Kind))
}

func (s SourceSettings) formatOr(def codec.Type) string {
	if s.Format == "" {
		return def.String()
	}
	return s.Format
}
