package dispatch

// SetKeyValue implements set_key_value.
func (d *Dispatcher) SetKeyValue(req SetKeyValueRequest) (SetKeyValueReply, error) {
	if err := d.eng.SetValue(req.Handle, req.Name, req.Type, req.Data); err != nil {
		return SetKeyValueReply{}, err
	}
	return SetKeyValueReply{}, nil
}

// GetKeyValue implements get_key_value. On a miss the type field reads
// RegInvalid, already guaranteed by Engine.GetValue.
func (d *Dispatcher) GetKeyValue(req GetKeyValueRequest) (GetKeyValueReply, error) {
	typ, data, err := d.eng.GetValue(req.Handle, req.Name)
	if err != nil {
		return GetKeyValueReply{Type: typ}, err
	}
	return GetKeyValueReply{Type: typ, Data: data}, nil
}

// EnumKeyValue implements enum_key_value across all three info classes.
func (d *Dispatcher) EnumKeyValue(req EnumKeyValueRequest) (EnumKeyValueReply, error) {
	meta, data, err := d.eng.EnumValue(req.Handle, req.Index, req.InfoClass)
	if err != nil {
		return EnumKeyValueReply{}, err
	}
	return EnumKeyValueReply{Meta: meta, Data: data}, nil
}

// DeleteKeyValue implements delete_key_value.
func (d *Dispatcher) DeleteKeyValue(req DeleteKeyValueRequest) (DeleteKeyValueReply, error) {
	if err := d.eng.DeleteValue(req.Handle, req.Name); err != nil {
		return DeleteKeyValueReply{}, err
	}
	return DeleteKeyValueReply{}, nil
}
