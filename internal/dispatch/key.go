package dispatch

import "github.com/joshuapare/hivekit/registry"

// CreateKey implements create_key: open-or-create, reporting created=true
// only when the terminal segment did not already exist. A newly created key
// inherits the engine's default security descriptor, reported back to the
// caller; an opened (pre-existing) key reports no descriptor since
// CreateKey never re-applies it.
func (d *Dispatcher) CreateKey(req CreateKeyRequest) (CreateKeyReply, error) {
	_, access := d.resolveAttr(req.Access, req.Attributes.CallerIs32Bit, req.Attributes.OpenLink)
	opts := req.Options
	opts.Class = req.Class
	if access&registry.KeyCreateLink != 0 {
		opts.Link = true
	}
	id, created, err := d.eng.CreateKey(req.Attributes.Root, req.Attributes.Path, opts)
	if err != nil {
		return CreateKeyReply{}, err
	}
	reply := CreateKeyReply{Handle: id, Created: created}
	if created {
		reply.Security = d.eng.DefaultSecurityDescriptor()
	}
	return reply, nil
}

// OpenKey implements open_key: resolve path under parent without mutation.
func (d *Dispatcher) OpenKey(req OpenKeyRequest) (OpenKeyReply, error) {
	attr, _ := d.resolveAttr(req.Access, req.Attributes.CallerIs32Bit, req.Attributes.OpenLink)
	id, err := d.eng.OpenKey(req.Attributes.Root, req.Attributes.Path, registry.OpenOptions{Attr: attr})
	if err != nil {
		return OpenKeyReply{}, err
	}
	return OpenKeyReply{Handle: id}, nil
}

// DeleteKey implements delete_key.
func (d *Dispatcher) DeleteKey(req DeleteKeyRequest) (DeleteKeyReply, error) {
	if err := d.eng.DeleteKey(req.Handle, req.Recursive); err != nil {
		return DeleteKeyReply{}, err
	}
	return DeleteKeyReply{}, nil
}

// FlushKey implements flush_key. WINE reserves this as a no-op; this
// module instead forces a synchronous save of the handle's branch when a
// save.Scheduler is wired, exercising the atomic-save protocol instead of
// discarding the call (see DESIGN.md).
func (d *Dispatcher) FlushKey(req FlushKeyRequest) (FlushKeyReply, error) {
	if d.saver == nil {
		return FlushKeyReply{}, nil
	}
	if err := d.saver.FlushKey(req.Handle); err != nil {
		return FlushKeyReply{}, err
	}
	return FlushKeyReply{}, nil
}

// EnumKey implements enum_key across all five info classes.
func (d *Dispatcher) EnumKey(req EnumKeyRequest) (EnumKeyReply, error) {
	meta, full, err := d.eng.EnumKey(req.Handle, req.Index, req.InfoClass)
	if err != nil {
		return EnumKeyReply{}, err
	}
	return EnumKeyReply{Meta: meta, FullName: full}, nil
}
