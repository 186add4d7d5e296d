// Package topicmgr keeps the catalogue of declared event-bus topics.
//
// The event bus itself accepts any non-empty topic string. Topics that the
// application declares up front are registered here so they can be validated,
// listed by the CLI and documented in one place.
//
// Topic names follow the namespaced convention used across the UI modules:
//
//	rocketPool/Init/networkDetected
//	rocketPool/Processing/show
//
// Framework topics are shared by every module (the processing overlay, for
// example). Module topics belong to the module named in their second segment:
//
//	var NetworkDetected = topicmgr.DefineModule(topicmgr.TopicConfig{
//		Name:        "rocketPool/Init/networkDetected",
//		Module:      "Init",
//		Description: "Published once the connected network has been classified",
//	})
//
//	topicmgr.Default().MustRegister(NetworkDetected)
package topicmgr
