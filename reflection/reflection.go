// Package reflection describes the binding interface of a compiled
// shader module: descriptor bindings, stage varyings, and the entry
// point. The data serializes with MessagePack so pipeline tooling can
// carry it as a compact sidecar next to the SPIR-V binary.
package reflection

import (
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

// ResourceKind classifies a descriptor binding.
type ResourceKind string

const (
	KindUniformBuffer ResourceKind = "uniform-buffer"
	KindStorageBuffer ResourceKind = "storage-buffer"
	KindSampledImage  ResourceKind = "sampled-image"
	KindStorageImage  ResourceKind = "storage-image"
)

// Resource is one descriptor binding used by the shader.
type Resource struct {
	Name    string       `msgpack:"name"`
	Kind    ResourceKind `msgpack:"kind"`
	Set     uint32       `msgpack:"set"`
	Binding uint32       `msgpack:"binding"`

	// Size is the byte size of buffer resources under their layout
	// rule, zero for images and samplers.
	Size uint32 `msgpack:"size,omitempty"`
}

// Varying is one stage input or output with an explicit location.
type Varying struct {
	Name     string `msgpack:"name"`
	Location uint32 `msgpack:"location"`
	Input    bool   `msgpack:"input"`
}

// Info is the full reflection record for one compiled module.
type Info struct {
	EntryPoint string `msgpack:"entry_point"`
	Stage      string `msgpack:"stage"`

	// Workgroup is the compute local size, zero for other stages.
	Workgroup [3]uint32 `msgpack:"workgroup,omitempty"`

	Resources []Resource `msgpack:"resources,omitempty"`
	Varyings  []Varying  `msgpack:"varyings,omitempty"`
}

// Encode writes the record in MessagePack form.
func (i *Info) Encode(w io.Writer) error {
	if err := msgpack.NewEncoder(w).Encode(i); err != nil {
		return fmt.Errorf("encoding reflection: %w", err)
	}
	return nil
}

// Decode reads a MessagePack reflection record.
func Decode(r io.Reader) (*Info, error) {
	var info Info
	if err := msgpack.NewDecoder(r).Decode(&info); err != nil {
		return nil, fmt.Errorf("decoding reflection: %w", err)
	}
	return &info, nil
}

// Resource returns the binding with the given name, or nil.
func (i *Info) Resource(name string) *Resource {
	for idx := range i.Resources {
		if i.Resources[idx].Name == name {
			return &i.Resources[idx]
		}
	}
	return nil
}
