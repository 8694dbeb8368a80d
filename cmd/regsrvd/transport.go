package main

import (
	"encoding/json"
	"fmt"
	"net"

	"github.com/joshuapare/hivekit/internal/dispatch"
	"github.com/joshuapare/hivekit/internal/regtext"
	"github.com/joshuapare/hivekit/pkg/types"
	"github.com/joshuapare/hivekit/registry"
)

// request is the wire envelope: op names one of the thirteen commands or
// the supplementary export_branch op, and payload is that op's request
// struct encoded as JSON.
type request struct {
	Op      string          `json:"op"`
	Payload json.RawMessage `json:"payload"`
}

type response struct {
	OK     bool        `json:"ok"`
	Result interface{} `json:"result,omitempty"`
	Error  string      `json:"error,omitempty"`
}

func (s *server) handleConn(conn net.Conn) {
	defer conn.Close()
	dec := json.NewDecoder(conn)
	enc := json.NewEncoder(conn)

	for {
		var req request
		if err := dec.Decode(&req); err != nil {
			return
		}
		enc.Encode(s.dispatchOne(req))
	}
}

func (s *server) dispatchOne(req request) response {
	result, err := s.route(req)
	if err != nil {
		return response{OK: false, Error: err.Error()}
	}
	return response{OK: true, Result: result}
}

func (s *server) route(req request) (interface{}, error) {
	d := s.disp
	switch req.Op {
	case "create_key":
		var r dispatch.CreateKeyRequest
		if err := json.Unmarshal(req.Payload, &r); err != nil {
			return nil, err
		}
		return d.CreateKey(r)
	case "open_key":
		var r dispatch.OpenKeyRequest
		if err := json.Unmarshal(req.Payload, &r); err != nil {
			return nil, err
		}
		return d.OpenKey(r)
	case "delete_key":
		var r dispatch.DeleteKeyRequest
		if err := json.Unmarshal(req.Payload, &r); err != nil {
			return nil, err
		}
		return d.DeleteKey(r)
	case "flush_key":
		var r dispatch.FlushKeyRequest
		if err := json.Unmarshal(req.Payload, &r); err != nil {
			return nil, err
		}
		return d.FlushKey(r)
	case "enum_key":
		var r dispatch.EnumKeyRequest
		if err := json.Unmarshal(req.Payload, &r); err != nil {
			return nil, err
		}
		return d.EnumKey(r)
	case "set_key_value":
		var r dispatch.SetKeyValueRequest
		if err := json.Unmarshal(req.Payload, &r); err != nil {
			return nil, err
		}
		return d.SetKeyValue(r)
	case "get_key_value":
		var r dispatch.GetKeyValueRequest
		if err := json.Unmarshal(req.Payload, &r); err != nil {
			return nil, err
		}
		return d.GetKeyValue(r)
	case "enum_key_value":
		var r dispatch.EnumKeyValueRequest
		if err := json.Unmarshal(req.Payload, &r); err != nil {
			return nil, err
		}
		return d.EnumKeyValue(r)
	case "delete_key_value":
		var r dispatch.DeleteKeyValueRequest
		if err := json.Unmarshal(req.Payload, &r); err != nil {
			return nil, err
		}
		return d.DeleteKeyValue(r)
	case "load_registry":
		var r dispatch.LoadRegistryRequest
		if err := json.Unmarshal(req.Payload, &r); err != nil {
			return nil, err
		}
		return d.LoadRegistry(r)
	case "unload_registry":
		var r dispatch.UnloadRegistryRequest
		if err := json.Unmarshal(req.Payload, &r); err != nil {
			return nil, err
		}
		return d.UnloadRegistry(r)
	case "save_registry":
		var r dispatch.SaveRegistryRequest
		if err := json.Unmarshal(req.Payload, &r); err != nil {
			return nil, err
		}
		return d.SaveRegistry(r)
	case "set_registry_notification":
		var r dispatch.SetRegistryNotificationRequest
		if err := json.Unmarshal(req.Payload, &r); err != nil {
			return nil, err
		}
		r.Event = registry.NewEvent(nil)
		return d.SetRegistryNotification(r)
	case "export_branch":
		// regctl dump/export (SUPPLEMENTED FEATURE, see SPEC_FULL.md): render
		// a handle's subtree to WINE-dialect text without touching disk, so
		// an operator can inspect a running engine without stopping it.
		var r struct {
			Handle types.KeyID `json:"Handle"`
			Arch   string      `json:"Arch"`
		}
		if err := json.Unmarshal(req.Payload, &r); err != nil {
			return nil, err
		}
		arch := r.Arch
		if arch == "" {
			arch = string(s.cfg.Arch)
		}
		data, err := regtext.Save(s.eng, r.Handle, regtext.SaveOptions{Arch: arch})
		if err != nil {
			return nil, err
		}
		return struct {
			Text string `json:"Text"`
		}{Text: string(data)}, nil
	default:
		return nil, fmt.Errorf("unknown op %q", req.Op)
	}
}
