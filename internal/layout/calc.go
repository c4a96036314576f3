package layout

// Calculator computes and caches layouts. It is not safe for concurrent use.
type Calculator struct {
	cache map[Type]Info
}

func NewCalculator() *Calculator {
	return &Calculator{
		cache: make(map[Type]Info),
	}
}

func (c *Calculator) Calculate(t Type) Info {
	switch typ := t.(type) {
	case Scalar:
		return Info{Size: typ.Size, Align: typ.Align}
	case *Record, *Union, *Enum:
		if cached, ok := c.cache[t]; ok {
			return cached
		}
		var info Info
		switch typ := typ.(type) {
		case *Record:
			info = c.calculateRecord(typ)
		case *Union:
			info = c.calculateUnion(typ)
		case *Enum:
			info = Info{Size: typ.Repr.Size, Align: typ.Repr.Align}
		}
		c.cache[t] = info
		return info
	default:
		return Info{Size: 0, Align: 1}
	}
}

func (c *Calculator) calculateRecord(r *Record) Info {
	if len(r.Fields) == 0 {
		return Info{Size: 0, Align: 1}
	}

	fieldOffs := make(map[string]uint32)
	maxAlign := uint32(1)
	offset := uint32(0)

	for _, field := range r.Fields {
		fieldLayout := c.Calculate(field.Type)

		offset = AlignTo(offset, fieldLayout.Align)
		c.recordField(fieldOffs, field, offset, fieldLayout)

		if fieldLayout.Align > maxAlign {
			maxAlign = fieldLayout.Align
		}

		offset += fieldLayout.Size
	}

	totalSize := AlignTo(offset, maxAlign)

	return Info{
		Size:      totalSize,
		Align:     maxAlign,
		FieldOffs: fieldOffs,
	}
}

// recordField registers a field and, for aggregates, its nested members.
func (c *Calculator) recordField(offs map[string]uint32, field Field, offset uint32, info Info) {
	if _, ok := field.Type.(*Union); ok && field.Name == "" {
		for name, off := range info.FieldOffs {
			offs[name] = offset + off
		}
		return
	}

	offs[field.Name] = offset
	for name, off := range info.FieldOffs {
		offs[field.Name+"."+name] = offset + off
	}
}

func (c *Calculator) calculateUnion(u *Union) Info {
	if len(u.Members) == 0 {
		return Info{Size: 0, Align: 1}
	}

	fieldOffs := make(map[string]uint32)
	maxAlign := uint32(1)
	maxSize := uint32(0)

	for _, m := range u.Members {
		memberLayout := c.Calculate(m.Type)
		c.recordField(fieldOffs, m, 0, memberLayout)
		if memberLayout.Align > maxAlign {
			maxAlign = memberLayout.Align
		}
		if memberLayout.Size > maxSize {
			maxSize = memberLayout.Size
		}
	}

	return Info{
		Size:      AlignTo(maxSize, maxAlign),
		Align:     maxAlign,
		FieldOffs: fieldOffs,
	}
}

// DiscriminantSize is the WIT enum/variant tag size for numCases cases.
func DiscriminantSize(numCases int) uint32 {
	if numCases <= 256 {
		return 1
	} else if numCases <= 65536 {
		return 2
	}
	return 4
}
