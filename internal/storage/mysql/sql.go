package mysql

// -----------------------------------------------------------------------------
// WRITES
// -----------------------------------------------------------------------------

const upsertPropertySQL = `
INSERT INTO properties
  (id, title, description, price, listing_type, property_type, bedrooms, bathrooms,
   square_footage, address, city, neighborhood, lat, lng, furnished, images, features,
   agent_id, agent_name, agent_email, agent_phone, agent_avatar, created_at, views, is_featured)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  title          = VALUES(title),
  description    = VALUES(description),
  price          = VALUES(price),
  listing_type   = VALUES(listing_type),
  property_type  = VALUES(property_type),
  bedrooms       = VALUES(bedrooms),
  bathrooms      = VALUES(bathrooms),
  square_footage = VALUES(square_footage),
  address        = VALUES(address),
  city           = VALUES(city),
  neighborhood   = VALUES(neighborhood),
  lat            = VALUES(lat),
  lng            = VALUES(lng),
  furnished      = VALUES(furnished),
  images         = VALUES(images),
  features       = VALUES(features),
  agent_id       = VALUES(agent_id),
  agent_name     = VALUES(agent_name),
  agent_email    = VALUES(agent_email),
  agent_phone    = VALUES(agent_phone),
  agent_avatar   = VALUES(agent_avatar),
  created_at     = VALUES(created_at),
  views          = VALUES(views),
  is_featured    = VALUES(is_featured)
`

const upsertUserSQL = `
INSERT INTO users (id, name, email, phone, avatar, role)
VALUES (?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  name   = VALUES(name),
  email  = VALUES(email),
  phone  = VALUES(phone),
  avatar = VALUES(avatar),
  role   = VALUES(role)
`

const insertInquirySQL = `
INSERT INTO inquiries (id, property_id, user_id, name, email, phone, message, status, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const insertSubmissionSQL = `
INSERT INTO listing_submissions
  (id, submitted_by, title, description, price, listing_type, property_type, bedrooms, bathrooms,
   square_footage, address, city, neighborhood, furnished, features, images, status, created_at)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const insertContactSQL = `
INSERT INTO contact_messages (id, name, email, phone, subject, message, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
`

// Saving twice keeps the original saved_at.
const saveSQL = `INSERT IGNORE INTO saved_properties (user_id, property_id) VALUES (?, ?)`

const unsaveSQL = `DELETE FROM saved_properties WHERE user_id = ? AND property_id = ?`

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

const propertyColumns = `
  id, title, description, price, listing_type, property_type, bedrooms, bathrooms,
  square_footage, address, city, neighborhood, lat, lng, furnished, images, features,
  agent_id, agent_name, agent_email, agent_phone, agent_avatar, created_at, views, is_featured`

// Catalog order is insertion order.
const listPropertiesSQL = `SELECT` + propertyColumns + `
FROM properties
ORDER BY seq`

const getPropertySQL = `SELECT` + propertyColumns + `
FROM properties
WHERE id = ?`

const getUserSQL = `SELECT id, name, email, phone, avatar, role FROM users WHERE id = ?`

const countUsersSQL = `SELECT COUNT(*) FROM users`

const listSavedSQL = `
SELECT property_id
FROM saved_properties
WHERE user_id = ?
ORDER BY saved_at, property_id`

const inquiryColumns = `id, property_id, user_id, name, email, phone, message, status, created_at`

const listInquiriesByUserSQL = `SELECT ` + inquiryColumns + `
FROM inquiries
WHERE user_id = ?
ORDER BY created_at DESC, id`

// The IN list is expanded by the repo.
const listInquiriesByPropertiesPrefix = `SELECT ` + inquiryColumns + `
FROM inquiries
WHERE property_id IN `

const listInquiriesByPropertiesSuffix = ` ORDER BY created_at DESC, id`

const submissionColumns = `
  id, submitted_by, title, description, price, listing_type, property_type, bedrooms, bathrooms,
  square_footage, address, city, neighborhood, furnished, features, images, status, created_at`

const listSubmissionsSQL = `SELECT` + submissionColumns + `
FROM listing_submissions
WHERE (? = '' OR status = ?)
ORDER BY created_at, id`
