/*
Copyright 2023 Alexander Bartolomey (github@alexanderbartolomey.de)

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package netflow

import "sync"

// TemplateRegistry is an in-memory, ephemeral template store keyed by
// observation domain id (IPFIX) or source id (NetFlow v9) and then by
// template id, behind a single mutex. It does not persist across restarts
// and does not expire entries on its own; a caller that needs either can
// snapshot it with DumpTemplatesYAML/LoadTemplatesYAML or wrap it.
type TemplateRegistry struct {
	mu               sync.RWMutex
	templates        map[uint32]map[uint16]*Template
	optionsTemplates map[uint32]map[uint16]*OptionsTemplate
	v9Templates      map[uint32]map[uint16]*V9Template
	v9Options        map[uint32]map[uint16]*V9OptionsTemplate
}

func NewTemplateRegistry() *TemplateRegistry {
	return &TemplateRegistry{
		templates:        make(map[uint32]map[uint16]*Template),
		optionsTemplates: make(map[uint32]map[uint16]*OptionsTemplate),
		v9Templates:      make(map[uint32]map[uint16]*V9Template),
		v9Options:        make(map[uint32]map[uint16]*V9OptionsTemplate),
	}
}

func (tr *TemplateRegistry) PutTemplate(domainID uint32, t *Template) {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	byID, ok := tr.templates[domainID]
	if !ok {
		byID = make(map[uint16]*Template)
		tr.templates[domainID] = byID
	}
	byID[t.TemplateID] = t
}

func (tr *TemplateRegistry) Template(domainID uint32, templateID uint16) (*Template, bool) {
	tr.mu.RLock()
	defer tr.mu.RUnlock()
	byID, ok := tr.templates[domainID]
	if !ok {
		return nil, false
	}
	t, ok := byID[templateID]
	return t, ok
}

func (tr *TemplateRegistry) PutOptionsTemplate(domainID uint32, t *OptionsTemplate) {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	byID, ok := tr.optionsTemplates[domainID]
	if !ok {
		byID = make(map[uint16]*OptionsTemplate)
		tr.optionsTemplates[domainID] = byID
	}
	byID[t.TemplateID] = t
}

func (tr *TemplateRegistry) OptionsTemplate(domainID uint32, templateID uint16) (*OptionsTemplate, bool) {
	tr.mu.RLock()
	defer tr.mu.RUnlock()
	byID, ok := tr.optionsTemplates[domainID]
	if !ok {
		return nil, false
	}
	t, ok := byID[templateID]
	return t, ok
}

func (tr *TemplateRegistry) PutV9Template(sourceID uint32, t *V9Template) {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	byID, ok := tr.v9Templates[sourceID]
	if !ok {
		byID = make(map[uint16]*V9Template)
		tr.v9Templates[sourceID] = byID
	}
	byID[t.TemplateID] = t
}

func (tr *TemplateRegistry) V9Template(sourceID uint32, templateID uint16) (*V9Template, bool) {
	tr.mu.RLock()
	defer tr.mu.RUnlock()
	byID, ok := tr.v9Templates[sourceID]
	if !ok {
		return nil, false
	}
	t, ok := byID[templateID]
	return t, ok
}

func (tr *TemplateRegistry) PutV9OptionsTemplate(sourceID uint32, t *V9OptionsTemplate) {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	byID, ok := tr.v9Options[sourceID]
	if !ok {
		byID = make(map[uint16]*V9OptionsTemplate)
		tr.v9Options[sourceID] = byID
	}
	byID[t.TemplateID] = t
}

func (tr *TemplateRegistry) V9OptionsTemplate(sourceID uint32, templateID uint16) (*V9OptionsTemplate, bool) {
	tr.mu.RLock()
	defer tr.mu.RUnlock()
	byID, ok := tr.v9Options[sourceID]
	if !ok {
		return nil, false
	}
	t, ok := byID[templateID]
	return t, ok
}

// Forget discards every template registered under domainID/sourceID,
// matching a collector's response to an IPFIX/v9 withdrawal-style "all
// templates" teardown for that domain.
func (tr *TemplateRegistry) Forget(domainID uint32) {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	delete(tr.templates, domainID)
	delete(tr.optionsTemplates, domainID)
	delete(tr.v9Templates, domainID)
	delete(tr.v9Options, domainID)
}
