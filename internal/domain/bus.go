package domain

// MessageBus routes messages between channels and the pipeline.
//
// Outbound handlers are invoked synchronously from SendOutbound, so a caller
// that sends replies one at a time observes each delivery complete before the
// next begins. The pipeline relies on this for chunk ordering.
type MessageBus interface {
	Publish(msg InboundMessage)
	Subscribe() <-chan InboundMessage
	SendOutbound(msg OutboundMessage)
	OnOutbound(channelName string, handler func(OutboundMessage))
	Close()
}
