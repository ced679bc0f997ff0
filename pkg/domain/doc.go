/*
Package domain contains the core domain models for the Parley engine.

It defines the fundamental entities of a scripted conversation, such as
Messages, Script Nodes, Component Directives, and the persisted Snapshot.
This package is kept pure and free of external dependencies like I/O or
persistence, following Hexagonal Architecture principles.

# Key Entities

  - Message: One entry in the conversation transcript (user or assistant).
  - ScriptNode: Trigger phrases mapped to a pre-authored response bundle.
  - Directive: A closed union describing a non-text UI element attached
    to a message; opaque to the engine beyond its discriminant.
  - Snapshot: The persisted transcript for one storage key.
  - OrderLine: A priced line item produced by the guided workflow.
*/
package domain
