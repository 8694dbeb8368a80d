package dispatch

// SetRegistryNotification implements set_registry_notification (spec
// section 6.1/4.6). The caller supplies the *registry.Event to signal — the
// engine's own wakeup mechanism — while the mapping from that event to
// whatever the transport does to wake the waiting client belongs to the
// external handle table.
//
// A successful arm always reports types.ErrPending alongside a zero reply,
// signaling that the notification is now armed rather than delivering data.
func (d *Dispatcher) SetRegistryNotification(req SetRegistryNotificationRequest) (SetRegistryNotificationReply, error) {
	err := d.eng.SetNotification(req.Handle, req.Process, req.EventHandle, req.Filter, req.Subtree, req.Event)
	return SetRegistryNotificationReply{}, err
}
