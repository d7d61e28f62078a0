/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package screenplay

// Token is one semantic element produced by a script parser. Tokens are
// immutable once produced.
type Token struct {
	Tag      Tag      `json:"tag"`
	Text     string   `json:"text,omitempty"`
	Scene    string   `json:"scene,omitempty"`
	Position Position `json:"position,omitempty"`
	Prefix   string   `json:"prefix,omitempty"`
	Suffix   string   `json:"suffix,omitempty"`
}

// Content returns the printable text of the token: prefix, text and suffix.
func (t Token) Content() string {
	return t.Prefix + t.Text + t.Suffix
}

// IsDual reports whether the token is part of a dual dialogue column.
func (t Token) IsDual() bool {
	return t.Position == PosLeft || t.Position == PosRight
}
