/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"scriptpress/internal/screenplay"
)

// ErrInvalidTokens is returned when a token stream fails schema validation.
var ErrInvalidTokens = errors.New("invalid token stream")

//go:embed tokens.schema.json
var tokenSchema []byte

// wireToken accepts scene numbers written as JSON numbers too.
type wireToken struct {
	Tag      string          `json:"tag"`
	Text     string          `json:"text"`
	Scene    json.RawMessage `json:"scene"`
	Position string          `json:"position"`
	Prefix   string          `json:"prefix"`
	Suffix   string          `json:"suffix"`
}

// LoadTokens reads a JSON array of tokens and validates it against the
// embedded token schema.
func LoadTokens(r io.Reader) ([]screenplay.Token, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read tokens: %w", err)
	}
	result, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(tokenSchema), gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTokens, err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, fmt.Errorf("%w: %s", ErrInvalidTokens, strings.Join(msgs, "; "))
	}
	var wire []wireToken
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("decode tokens: %w", err)
	}
	out := make([]screenplay.Token, 0, len(wire))
	for _, w := range wire {
		out = append(out, screenplay.Token{
			Tag:      screenplay.Tag(w.Tag),
			Text:     w.Text,
			Scene:    sceneString(w.Scene),
			Position: screenplay.Position(w.Position),
			Prefix:   w.Prefix,
			Suffix:   w.Suffix,
		})
	}
	return out, nil
}

func sceneString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n int64
	if err := json.Unmarshal(raw, &n); err == nil {
		return strconv.FormatInt(n, 10)
	}
	return ""
}

// WriteTokens writes tokens as an indented JSON array that LoadTokens reads
// back.
func WriteTokens(w io.Writer, tokens []screenplay.Token) error {
	if tokens == nil {
		tokens = []screenplay.Token{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(tokens); err != nil {
		return fmt.Errorf("encode tokens: %w", err)
	}
	return nil
}
