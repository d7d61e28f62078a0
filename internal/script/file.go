/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"scriptpress/internal/screenplay"
)

// ReadFile loads a token stream from path. Files ending in .json are read as
// a token array; anything else is parsed as screenplay text, in which case
// the returned Errors list the recoverable parse problems.
func ReadFile(path string) ([]screenplay.Token, []Error, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		f, err := os.Open(path)
		if err != nil {
			return nil, nil, fmt.Errorf("open tokens: %w", err)
		}
		defer f.Close()
		toks, err := LoadTokens(f)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
		return toks, nil, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read script: %w", err)
	}
	toks, errs := Parse(string(b))
	return toks, errs, nil
}
