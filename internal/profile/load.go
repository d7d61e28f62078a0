/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package profile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadFile reads a YAML print profile. A profile may name a builtin with
// `base:`; fields present in the file replace the base's, settings are
// merged per tag. Without a base the file starts from usletter.
func LoadFile(path string) (Profile, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("read profile %s: %w", path, err)
	}
	p, err := Parse(b)
	if err != nil {
		return Profile{}, fmt.Errorf("profile %s: %w", path, err)
	}
	return p, nil
}

// Parse decodes YAML profile bytes.
func Parse(data []byte) (Profile, error) {
	var head struct {
		Base string `yaml:"base"`
		Name string `yaml:"name"`
	}
	if err := yaml.Unmarshal(data, &head); err != nil {
		return Profile{}, fmt.Errorf("parse yaml: %w", err)
	}
	base := head.Base
	if base == "" {
		base = "usletter"
	}
	p, err := ByName(base)
	if err != nil {
		return Profile{}, err
	}
	inherited := p.Settings
	p.Settings = nil
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Profile{}, fmt.Errorf("parse yaml: %w", err)
	}
	for tag, s := range p.Settings {
		merged := inherited[tag]
		merge(&merged, s)
		inherited[tag] = merged
	}
	p.Settings = inherited
	if head.Name == "" {
		p.Name = base + "-custom"
	}
	if err := p.Validate(); err != nil {
		return Profile{}, err
	}
	return p, nil
}
